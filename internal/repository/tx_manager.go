package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	Tables() TableRepository
	Menu() MenuRepository
	Staff() StaffRepository
	Settings() SettingsRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fn に渡す ctx はトランザクション内の印付き。中から WithinTx / View を呼ぶとエラーになる。
type TransactionManager interface {
	// fn が nil を返したら注文とテーブルの変更をまとめて commit する。
	WithinTx(ctx context.Context, fn func(ctx context.Context, r TxRepos) error) error
	// 読み取り専用。変更しようとするとエラー。
	View(ctx context.Context, fn func(ctx context.Context, r TxRepos) error) error
}
