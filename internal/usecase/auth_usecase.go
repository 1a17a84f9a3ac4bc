package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限（1シフト分）
const accessTokenTTL = 12 * time.Hour

type AuthUsecase struct {
	tx     repo.TransactionManager
	secret string
	clock  Clock
}

// DI
func NewAuthUsecase(tx repo.TransactionManager, jwtSecret string, clock Clock) *AuthUsecase {
	return &AuthUsecase{tx: tx, secret: jwtSecret, clock: clock}
}

type LoginInput struct {
	StaffID string
	PIN     string
}

type AccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginOutput struct {
	Staff StaffOutput    `json:"staff"`
	Token AccessTokenDTO `json:"token"`
}

// Login はスタッフIDとPINでトークンを発行する。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if u.secret == "" {
		return LoginOutput{}, NewHTTPError(http.StatusNotFound, "auth disabled")
	}
	if strings.TrimSpace(in.StaffID) == "" || in.PIN == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid credentials")
	}

	var staff model.Staff
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		staff, err = r.Staff().FindByID(ctx, in.StaffID)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, toHTTPError(err)
	}

	//PIN未設定のスタッフはログインできない
	if staff.PinHash == "" || !verifyPIN(in.PIN, staff.PinHash) {
		log.Info().Str("staff_id", in.StaffID).Msg("login failed")
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := u.issueAccessToken(staff)
	if err != nil {
		log.Error().Err(err).Msg("token sign failed")
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		Staff: toStaffOutput(staff),
		Token: AccessTokenDTO{AccessToken: token, ExpiresIn: int(accessTokenTTL.Seconds())},
	}, nil
}

// EnsureBootstrapPIN は PIN 未設定のマネージャーに初期PINを入れる。設定した人数を返す。
func (u *AuthUsecase) EnsureBootstrapPIN(ctx context.Context, pin string) (int, error) {
	if pin == "" {
		return 0, nil
	}
	hash, err := hashPIN(pin)
	if err != nil {
		return 0, err
	}

	n := 0
	err = u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		staff, err := r.Staff().List(ctx)
		if err != nil {
			return err
		}
		for _, s := range staff {
			if s.Role != model.StaffRoleManager || s.PinHash != "" {
				continue
			}
			s.PinHash = hash
			if _, err := r.Staff().Update(ctx, s); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(s model.Staff) (string, error) {
	now := u.clock.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  s.ID,
		"role": string(s.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(u.secret))
}

// PINは4〜8桁の数字
func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hashPIN(pin string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func verifyPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
