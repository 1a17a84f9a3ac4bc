package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/go-playground/validator/v10"
)

// 単一フィールドの形式チェック用
var fieldValidate = validator.New()

type StaffUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
}

func NewStaffUsecase(tx repo.TransactionManager, idGen IDGenerator) *StaffUsecase {
	return &StaffUsecase{tx: tx, idGen: idGen}
}

// PINハッシュは返さない
type StaffOutput struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Role     model.StaffRole `json:"role"`
	Phone    string          `json:"phone"`
	Email    string          `json:"email,omitempty"`
	JoinedAt time.Time       `json:"joined_at"`
	HasPIN   bool            `json:"has_pin"`
}

func toStaffOutput(s model.Staff) StaffOutput {
	return StaffOutput{
		ID:       s.ID,
		Name:     s.Name,
		Role:     s.Role,
		Phone:    s.Phone,
		Email:    s.Email,
		JoinedAt: s.JoinedAt,
		HasPIN:   s.PinHash != "",
	}
}

type StaffInput struct {
	Name  string
	Role  string
	Phone string
	Email string
}

func (u *StaffUsecase) List(ctx context.Context) ([]StaffOutput, error) {
	var out []StaffOutput
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		staff, err := r.Staff().List(ctx)
		if err != nil {
			return err
		}
		out = make([]StaffOutput, 0, len(staff))
		for _, s := range staff {
			out = append(out, toStaffOutput(s))
		}
		return nil
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return out, nil
}

func (u *StaffUsecase) Create(ctx context.Context, in StaffInput) (StaffOutput, error) {
	s := model.Staff{
		Name:  strings.TrimSpace(in.Name),
		Role:  model.StaffRole(in.Role),
		Phone: strings.TrimSpace(in.Phone),
		Email: strings.TrimSpace(in.Email),
	}
	if s.Name == "" || len(s.Name) > maxNameLen {
		return StaffOutput{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if !s.Role.Valid() {
		return StaffOutput{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if s.Email != "" {
		if err := fieldValidate.Var(s.Email, "email"); err != nil {
			return StaffOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
		}
	}

	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		s.ID = u.idGen.NewID()
		var err error
		s, err = r.Staff().Create(ctx, s)
		return err
	})
	if err != nil {
		return StaffOutput{}, toHTTPError(err)
	}
	return toStaffOutput(s), nil
}

func (u *StaffUsecase) Delete(ctx context.Context, id string) error {
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		return r.Staff().Delete(ctx, id)
	})
	return toHTTPError(err)
}

// SetPIN はログイン用PINを設定する（bcryptで保存）。
func (u *StaffUsecase) SetPIN(ctx context.Context, id, pin string) error {
	if !validPIN(pin) {
		return NewHTTPError(http.StatusBadRequest, "pin must be 4-8 digits")
	}
	hash, err := hashPIN(pin)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		s, err := r.Staff().FindByID(ctx, id)
		if err != nil {
			return err
		}
		s.PinHash = hash
		_, err = r.Staff().Update(ctx, s)
		return err
	})
	return toHTTPError(err)
}
