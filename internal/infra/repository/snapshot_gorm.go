package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type clock interface {
	Now() time.Time
}

// SnapshotGormRepository はスナップショットを5つのキー（JSON）として1テーブルに保存する。
type SnapshotGormRepository struct {
	db    *gorm.DB
	clock clock
}

// DI
func NewSnapshotGormRepository(db *gorm.DB, clock clock) *SnapshotGormRepository {
	return &SnapshotGormRepository{db: db, clock: clock}
}

var _ repo.SnapshotRepository = (*SnapshotGormRepository)(nil)

// Save は全キーを1トランザクションで upsert する。
func (r *SnapshotGormRepository) Save(ctx context.Context, s model.Snapshot) error {
	if s.Orders == nil {
		s.Orders = map[string]model.Order{}
	}

	now := r.clock.Now()
	values := []struct {
		key string
		v   any
	}{
		{model.SnapshotKeyTables, s.Tables},
		{model.SnapshotKeyOrders, s.Orders},
		{model.SnapshotKeySettings, s.Settings},
		{model.SnapshotKeyMenu, s.Menu},
		{model.SnapshotKeyStaff, s.Staff},
	}

	entries := make([]model.SnapshotEntry, 0, len(values))
	for _, kv := range values {
		b, err := json.Marshal(kv.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", kv.key, err)
		}
		entries = append(entries, model.SnapshotEntry{
			Key:       kv.key,
			Version:   model.SnapshotVersion,
			Value:     datatypes.JSON(b),
			UpdatedAt: now,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "value", "updated_at"}),
		}).Create(&entries).Error
	})
}

// Load はキーごとに読み込む。
// 無い・壊れている・新しすぎるバージョンのキーは初期データに置き換える（エラーにしない）。
// DB自体が読めないときだけエラーを返す。
func (r *SnapshotGormRepository) Load(ctx context.Context) (model.Snapshot, error) {
	var rows []model.SnapshotEntry
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return model.Snapshot{}, err
	}

	byKey := make(map[string]model.SnapshotEntry, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row
	}

	def := model.DefaultSnapshot(r.clock.Now())
	return model.Snapshot{
		Tables:   decodeEntry(byKey, model.SnapshotKeyTables, def.Tables),
		Orders:   decodeEntry(byKey, model.SnapshotKeyOrders, def.Orders),
		Settings: decodeEntry(byKey, model.SnapshotKeySettings, def.Settings),
		Menu:     decodeEntry(byKey, model.SnapshotKeyMenu, def.Menu),
		Staff:    decodeEntry(byKey, model.SnapshotKeyStaff, def.Staff),
	}, nil
}

func decodeEntry[T any](rows map[string]model.SnapshotEntry, key string, def T) T {
	row, ok := rows[key]
	if !ok {
		return def
	}
	if row.Version > model.SnapshotVersion {
		log.Warn().Str("key", key).Int("version", row.Version).Msg("snapshot version not supported, using defaults")
		return def
	}

	// JSON null はキー無しと同じ
	if strings.TrimSpace(string(row.Value)) == "null" {
		return def
	}

	var v T
	if err := json.Unmarshal(row.Value, &v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("snapshot entry is corrupt, using defaults")
		return def
	}
	return v
}
