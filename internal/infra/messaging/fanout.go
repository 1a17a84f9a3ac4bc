package messaging

import (
	"context"
	"errors"
	"io"

	"restobill/internal/domain/model"
)

type Publisher interface {
	PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error
}

// Fanout は全部の publisher に送る。1つが失敗しても残りには送り、エラーはまとめて返す。
type Fanout []Publisher

func (f Fanout) PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishOrderClosed(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close は io.Closer を持つものだけ閉じる。
func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
