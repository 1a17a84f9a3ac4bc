package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// toHTTPError はドメインのエラーをステータス付きに変える。
// 409/404/400 は理由をそのまま返し、それ以外は中身を隠して500。
func toHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrAlreadyOccupied):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrReentrantMutation):
		return NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected error")
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
