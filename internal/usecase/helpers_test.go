package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"restobill/internal/domain/model"
	"restobill/internal/infra/memory"
	repo "restobill/internal/repository"
	"restobill/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =====================
// 固定の ID / 時計
// =====================

type seqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%04d-0000-0000", g.prefix, g.n)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 3, 14, 20, 15, 0, 0, time.UTC)

func newSession() *memory.Session {
	return memory.NewSession(model.DefaultSnapshot(testNow), &seqIDs{prefix: "abcd"}, fixedClock{testNow})
}

// =====================
// mocks
// =====================

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type InsightMock struct{ mock.Mock }

func (m *InsightMock) Generate(ctx context.Context, prompt string) (model.Insight, error) {
	args := m.Called(ctx, prompt)
	out, _ := args.Get(0).(model.Insight)
	return out, args.Error(1)
}

// TxManagerMock は WithinTx / View をエラーで止める
type TxManagerMock struct{ mock.Mock }

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(ctx context.Context, r repo.TxRepos) error) error {
	return m.Called(ctx).Error(0)
}

func (m *TxManagerMock) View(ctx context.Context, fn func(ctx context.Context, r repo.TxRepos) error) error {
	return m.Called(ctx).Error(0)
}

// =====================
// assert helpers
// =====================

func requireHTTPStatus(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, status, he.Status, he.Message)
	return he
}

func setupPOS(t *testing.T) (*memory.Session, *usecase.POSUsecase, *PublisherMock) {
	t.Helper()
	s := newSession()
	pub := new(PublisherMock)
	return s, usecase.NewPOSUsecase(s, pub), pub
}
