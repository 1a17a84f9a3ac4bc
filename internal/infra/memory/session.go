package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/rs/zerolog/log"
)

// View の中で変更しようとした
var ErrReadOnly = errors.New("read-only transaction")

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type txKey struct{}

// Session はテーブル・注文・カタログ・設定をまとめた集約の持ち主。
// 変更は WithinTx の中だけで行い、commit 後にスナップショットを保存する。
type Session struct {
	mu   sync.RWMutex
	snap model.Snapshot
	seq  uint64

	ids   IDGenerator
	clock Clock

	store       repo.SnapshotRepository
	saveTimeout time.Duration
	persistMu   sync.Mutex
	savedSeq    uint64
	wg          sync.WaitGroup
}

type Option func(*Session)

// 保存先。指定しなければメモリだけで動く。
func WithSnapshotStore(store repo.SnapshotRepository) Option {
	return func(s *Session) { s.store = store }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(s *Session) { s.saveTimeout = d }
}

func NewSession(snap model.Snapshot, ids IDGenerator, clock Clock, opts ...Option) *Session {
	if snap.Orders == nil {
		snap.Orders = map[string]model.Order{}
	}
	s := &Session{
		snap:        snap.Clone(),
		ids:         ids,
		clock:       clock,
		saveTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadSession は保存済みスナップショットから集約を復元する。
// 読み込みに失敗したら初期データで起動する。壊れたテーブル参照はここで解放する。
func LoadSession(ctx context.Context, store repo.SnapshotRepository, ids IDGenerator, clock Clock, opts ...Option) *Session {
	snap, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("snapshot load failed, starting from defaults")
		snap = model.DefaultSnapshot(clock.Now())
	}

	s := NewSession(snap, ids, clock, append([]Option{WithSnapshotStore(store)}, opts...)...)
	if seq, committed := s.reconcile(); seq > 0 {
		s.persistAsync(seq, committed)
	}
	return s
}

// WithinTx は集約のコピーに対して fn を実行し、nil なら差し替える（エラーなら捨てる）。
func (s *Session) WithinTx(ctx context.Context, fn func(ctx context.Context, r repo.TxRepos) error) error {
	if inTx(ctx) {
		return fmt.Errorf("%w: transaction already in progress", model.ErrReentrantMutation)
	}

	seq, committed, err := s.commit(ctx, fn)
	if err != nil || seq == 0 {
		return err
	}
	s.persistAsync(seq, committed)
	return nil
}

// commit はロック中に fn を走らせる。変更が無ければ seq=0。
// commit 後の snap はその場では書き換えない（次の tx は Clone から始まる）。
func (s *Session) commit(ctx context.Context, fn func(ctx context.Context, r repo.TxRepos) error) (uint64, model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.snap.Clone()
	st := &state{snap: &work, ids: s.ids, clock: s.clock}
	if err := fn(context.WithValue(ctx, txKey{}, true), newTxRepos(st)); err != nil {
		return 0, model.Snapshot{}, err
	}
	if !st.dirty {
		return 0, model.Snapshot{}, nil
	}

	s.snap = work
	s.seq++
	return s.seq, work, nil
}

// View は読み取り専用で fn を実行する。保存はしない。
func (s *Session) View(ctx context.Context, fn func(ctx context.Context, r repo.TxRepos) error) error {
	if inTx(ctx) {
		return fmt.Errorf("%w: transaction already in progress", model.ErrReentrantMutation)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	st := &state{snap: &snap, ids: s.ids, clock: s.clock, readOnly: true}
	return fn(context.WithValue(ctx, txKey{}, true), newTxRepos(st))
}

// Snapshot は commit 済みの集約のコピーを返す。
func (s *Session) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Flush は実行中の保存が終わるまで待つ。
func (s *Session) Flush() {
	s.wg.Wait()
}

// Close は保存を待ってから戻る。ctx が先に切れたらそのエラー。
func (s *Session) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) persistAsync(seq uint64, snap model.Snapshot) {
	if s.store == nil {
		return
	}
	s.wg.Add(1)
	go s.persist(seq, snap)
}

// 保存は順番に1つずつ。古いスナップショットで新しいものを上書きしない。
// 失敗してもリトライしない（次の変更で追いつく）。
func (s *Session) persist(seq uint64, snap model.Snapshot) {
	defer s.wg.Done()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if seq <= s.savedSeq {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()

	if err := s.store.Save(ctx, snap); err != nil {
		log.Error().Err(err).Uint64("seq", seq).Msg("snapshot save failed")
		return
	}
	s.savedSeq = seq
}

// reconcile はアクティブな注文を指していないテーブルを空きに戻す。
// 戻したものがあれば commit して seq を返す。
func (s *Session) reconcile() (uint64, model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.snap.Clone()
	n := 0
	for i, t := range work.Tables {
		if t.Status == model.TableStatusAvailable && t.CurrentOrderID == "" {
			continue
		}
		if o, ok := work.Orders[t.CurrentOrderID]; ok && o.IsActive() && t.Status == model.TableStatusOccupied {
			continue
		}

		log.Warn().
			Str("table_id", t.ID).
			Str("order_id", t.CurrentOrderID).
			Err(model.ErrStaleReference).
			Msg("releasing table with stale order reference")
		work.Tables[i].Status = model.TableStatusAvailable
		work.Tables[i].CurrentOrderID = ""
		n++
	}
	if n == 0 {
		return 0, model.Snapshot{}
	}

	s.snap = work
	s.seq++
	return s.seq, work
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// state は1つの tx が触る集約。
type state struct {
	snap     *model.Snapshot
	ids      IDGenerator
	clock    Clock
	readOnly bool
	dirty    bool
}

// 変更の前に呼ぶ。
func (st *state) mutate() error {
	if st.readOnly {
		return ErrReadOnly
	}
	st.dirty = true
	return nil
}

type txRepos struct {
	orders   *OrderStore
	tables   *TableRegistry
	menu     *MenuStore
	staff    *StaffStore
	settings *SettingsStore
}

func newTxRepos(st *state) *txRepos {
	orders := &OrderStore{st: st}
	return &txRepos{
		orders:   orders,
		tables:   &TableRegistry{st: st, orders: orders},
		menu:     &MenuStore{st: st},
		staff:    &StaffStore{st: st},
		settings: &SettingsStore{st: st},
	}
}

func (r *txRepos) Orders() repo.OrderRepository      { return r.orders }
func (r *txRepos) Tables() repo.TableRepository      { return r.tables }
func (r *txRepos) Menu() repo.MenuRepository         { return r.menu }
func (r *txRepos) Staff() repo.StaffRepository       { return r.staff }
func (r *txRepos) Settings() repo.SettingsRepository { return r.settings }
