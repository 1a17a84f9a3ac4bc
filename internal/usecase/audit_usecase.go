package usecase

import (
	"context"
	"net/http"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"
)

type actorKey struct{}

// WithActor は操作したスタッフのIDを ctx に入れる（AuthJWT が呼ぶ）。
func WithActor(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, actorKey{}, staffID)
}

func ActorFrom(ctx context.Context) string {
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}

// AuditRecorder は注文イベントを監査ログとして保存する（OrderEventPublisher として使う）。
type AuditRecorder struct {
	logs repo.AuditLogRepository
}

func NewAuditRecorder(logs repo.AuditLogRepository) *AuditRecorder {
	return &AuditRecorder{logs: logs}
}

func (r *AuditRecorder) PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error {
	return r.logs.Create(ctx, model.NewAuditLog(ev))
}

type AuditUsecase struct {
	logs repo.AuditLogRepository
}

func NewAuditUsecase(logs repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{logs: logs}
}

type AuditListInput struct {
	Action  string
	OrderID string
	StaffID string
	Limit   int
	Offset  int
}

func (u *AuditUsecase) List(ctx context.Context, in AuditListInput) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{
		ActorStaffID: in.StaffID,
		OrderID:      in.OrderID,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		if !a.Valid() {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		f.Action = &a
	}
	if in.Limit < 0 || in.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid paging")
	}

	out, err := u.logs.List(ctx, f)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return out, nil
}
