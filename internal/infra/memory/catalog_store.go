package memory

import (
	"context"
	"fmt"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"
)

// MenuStore はメニュー（参照データ）を持つ。
type MenuStore struct {
	st *state
}

func (s *MenuStore) List(ctx context.Context) ([]model.MenuItem, error) {
	out := make([]model.MenuItem, len(s.st.snap.Menu))
	copy(out, s.st.snap.Menu)
	return out, nil
}

func (s *MenuStore) FindByID(ctx context.Context, id string) (model.MenuItem, error) {
	i := s.index(id)
	if i < 0 {
		return model.MenuItem{}, fmt.Errorf("menu item %s: %w", id, repo.ErrNotFound)
	}
	return s.st.snap.Menu[i], nil
}

// Create は ID が空なら採番する。
func (s *MenuStore) Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if item.ID == "" {
		item.ID = s.st.ids.NewID()
	}
	if s.index(item.ID) >= 0 {
		return model.MenuItem{}, fmt.Errorf("%w: menu item %s already exists", model.ErrValidation, item.ID)
	}
	if err := s.st.mutate(); err != nil {
		return model.MenuItem{}, err
	}
	s.st.snap.Menu = append(s.st.snap.Menu, item)
	return item, nil
}

func (s *MenuStore) Update(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	i := s.index(item.ID)
	if i < 0 {
		return model.MenuItem{}, fmt.Errorf("menu item %s: %w", item.ID, repo.ErrNotFound)
	}
	if err := s.st.mutate(); err != nil {
		return model.MenuItem{}, err
	}
	s.st.snap.Menu[i] = item
	return item, nil
}

// Delete しても注文明細には名前と単価が残っているので影響しない。
func (s *MenuStore) Delete(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("menu item %s: %w", id, repo.ErrNotFound)
	}
	if err := s.st.mutate(); err != nil {
		return err
	}
	s.st.snap.Menu = append(s.st.snap.Menu[:i], s.st.snap.Menu[i+1:]...)
	return nil
}

func (s *MenuStore) index(id string) int {
	for i, m := range s.st.snap.Menu {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// StaffStore はスタッフ名簿を持つ。
type StaffStore struct {
	st *state
}

func (s *StaffStore) List(ctx context.Context) ([]model.Staff, error) {
	out := make([]model.Staff, len(s.st.snap.Staff))
	copy(out, s.st.snap.Staff)
	return out, nil
}

func (s *StaffStore) FindByID(ctx context.Context, id string) (model.Staff, error) {
	i := s.index(id)
	if i < 0 {
		return model.Staff{}, fmt.Errorf("staff %s: %w", id, repo.ErrNotFound)
	}
	return s.st.snap.Staff[i], nil
}

func (s *StaffStore) Create(ctx context.Context, m model.Staff) (model.Staff, error) {
	if m.ID == "" {
		m.ID = s.st.ids.NewID()
	}
	if s.index(m.ID) >= 0 {
		return model.Staff{}, fmt.Errorf("%w: staff %s already exists", model.ErrValidation, m.ID)
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = s.st.clock.Now()
	}
	if err := s.st.mutate(); err != nil {
		return model.Staff{}, err
	}
	s.st.snap.Staff = append(s.st.snap.Staff, m)
	return m, nil
}

func (s *StaffStore) Update(ctx context.Context, m model.Staff) (model.Staff, error) {
	i := s.index(m.ID)
	if i < 0 {
		return model.Staff{}, fmt.Errorf("staff %s: %w", m.ID, repo.ErrNotFound)
	}
	if err := s.st.mutate(); err != nil {
		return model.Staff{}, err
	}
	s.st.snap.Staff[i] = m
	return m, nil
}

func (s *StaffStore) Delete(ctx context.Context, id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("staff %s: %w", id, repo.ErrNotFound)
	}
	if err := s.st.mutate(); err != nil {
		return err
	}
	s.st.snap.Staff = append(s.st.snap.Staff[:i], s.st.snap.Staff[i+1:]...)
	return nil
}

func (s *StaffStore) index(id string) int {
	for i, m := range s.st.snap.Staff {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// SettingsStore は店舗設定を持つ。
// 税率を変えても既存の注文は次に明細が変わるまで再計算されない。
type SettingsStore struct {
	st *state
}

func (s *SettingsStore) Get(ctx context.Context) (model.StoreSettings, error) {
	return s.st.snap.Settings, nil
}

func (s *SettingsStore) Update(ctx context.Context, settings model.StoreSettings) (model.StoreSettings, error) {
	if err := s.st.mutate(); err != nil {
		return model.StoreSettings{}, err
	}
	s.st.snap.Settings = settings
	return settings, nil
}
