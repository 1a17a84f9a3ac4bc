package repository

import (
	"context"

	"restobill/internal/domain/model"
)

// スナップショット（テーブル・注文・設定・メニュー・スタッフ）の永続化。
// Load はキーが無い/壊れている場合そのキーだけ初期データを返す。
type SnapshotRepository interface {
	Save(ctx context.Context, s model.Snapshot) error
	Load(ctx context.Context) (model.Snapshot, error)
}
