package model

import (
	"time"

	"gorm.io/datatypes"
)

// スナップショットの形式バージョン。形が変わったら上げる。
// 0 はバージョン無し（旧データ）として扱う。
const SnapshotVersion = 1

// 永続化の単位（テーブル・注文・設定・メニュー・スタッフ）
type Snapshot struct {
	Tables   []Table          `json:"tables"`
	Orders   map[string]Order `json:"orders"`
	Settings StoreSettings    `json:"settings"`
	Menu     []MenuItem       `json:"menu"`
	Staff    []Staff          `json:"staff"`
}

// Clone は中身ごとコピーする。
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Tables:   make([]Table, len(s.Tables)),
		Orders:   make(map[string]Order, len(s.Orders)),
		Settings: s.Settings,
		Menu:     make([]MenuItem, len(s.Menu)),
		Staff:    make([]Staff, len(s.Staff)),
	}
	copy(c.Tables, s.Tables)
	copy(c.Menu, s.Menu)
	copy(c.Staff, s.Staff)
	for id, o := range s.Orders {
		c.Orders[id] = o.Clone()
	}
	return c
}

// スナップショットのキー（1キー1行）
const (
	SnapshotKeyTables   = "rb_tables"
	SnapshotKeyOrders   = "rb_orders"
	SnapshotKeySettings = "rb_settings"
	SnapshotKeyMenu     = "rb_menu"
	SnapshotKeyStaff    = "rb_staff"
)

// キーバリューの1行。Value はそのキーのJSON。
type SnapshotEntry struct {
	Key       string         `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Version   int            `gorm:"not null;default:0" json:"version"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
