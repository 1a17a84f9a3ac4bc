package messaging

import (
	"context"
	"errors"
	"testing"

	"restobill/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type closingPublisher struct {
	PublisherMock
	closed bool
}

func (p *closingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestFanout_PublishesToAll(t *testing.T) {
	ev := model.OrderClosedEvent{OrderID: "o1", Status: model.OrderStatusCompleted}
	broken := new(PublisherMock)
	broken.On("PublishOrderClosed", mock.Anything, ev).Return(errors.New("broker down")).Once()
	ok := new(PublisherMock)
	ok.On("PublishOrderClosed", mock.Anything, ev).Return(nil).Once()

	err := Fanout{broken, ok}.PublishOrderClosed(context.Background(), ev)
	assert.ErrorContains(t, err, "broker down")

	broken.AssertExpectations(t)
	ok.AssertExpectations(t)
}

func TestFanout_Close(t *testing.T) {
	c := &closingPublisher{}
	f := Fanout{new(PublisherMock), c, NopPublisher{}}

	assert.NoError(t, f.Close())
	assert.True(t, c.closed)
	assert.NoError(t, Fanout{}.PublishOrderClosed(context.Background(), model.OrderClosedEvent{}))
}
