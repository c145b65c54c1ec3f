package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/mailer"
	"github.com/capital/finance/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Register(ctx context.Context, req dtos.DTOForUserCreate) (dtos.Session, error)
	Login(ctx context.Context, req dtos.DTOForUserLogin) (dtos.Session, error)
	// Authenticate resolves a bearer token to an active user.
	Authenticate(ctx context.Context, token string) (entities.User, error)
	Refresh(ctx context.Context, user entities.User) (dtos.Session, error)
	ChangePassword(ctx context.Context, userID uint, req dtos.ChangePasswordDTO) error
	Deactivate(ctx context.Context, userID uint) error

	RequestReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	CompleteReset(ctx context.Context, email, code, newPassword string) error
}

type service struct {
	repository Repository
	issuer     *TokenIssuer
	mailer     mailer.Mailer
	now        func() time.Time
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*service)

// WithClock sets the clock used for reset code expiry.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithBcryptCost(cost int) Option {
	return func(s *service) { s.bcryptCost = cost }
}

func NewService(r Repository, issuer *TokenIssuer, m mailer.Mailer, opts ...Option) Service {
	s := &service{
		repository: r,
		issuer:     issuer,
		mailer:     m,
		now:        func() time.Time { return time.Now().UTC() },
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req dtos.DTOForUserCreate) (dtos.Session, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return dtos.Session{}, apperr.Validation(constant.INVALID_REQUEST)
	}
	if len(req.Password) < constant.MinPasswordLength {
		return dtos.Session{}, apperr.Validation(fmt.Sprintf(constant.PASSWORD_TOO_SHORT, constant.MinPasswordLength))
	}

	// Check if user already exists
	_, err := s.repository.FindUserByEmail(ctx, email)
	if err == nil {
		return dtos.Session{}, apperr.Conflict(fmt.Sprintf(constant.ALREADY_EXISTS, "Email"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dtos.Session{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return dtos.Session{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	user := entities.User{
		Email:    email,
		Password: string(passwordHash),
		Name:     name,
		Active:   true,
	}
	if err := s.repository.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dtos.Session{}, apperr.Conflict(fmt.Sprintf(constant.ALREADY_EXISTS, "Email"))
		}
		return dtos.Session{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	zap.L().Info("user registered", zap.Uint("user_id", user.ID))
	return s.session(user)
}

func (s *service) Login(ctx context.Context, req dtos.DTOForUserLogin) (dtos.Session, error) {
	user, err := s.repository.FindUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dtos.Session{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	if err != nil || !user.Active {
		// burn the same bcrypt time as a real comparison
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		return dtos.Session{}, apperr.Auth(constant.INVALID_CREDENTIALS, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		return dtos.Session{}, apperr.Auth(constant.INVALID_CREDENTIALS, nil)
	}

	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	return s.session(user)
}

func (s *service) Authenticate(ctx context.Context, token string) (entities.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		reason, hint := "malformed", constant.TOKEN_INVALID_HINT
		if errors.Is(err, ErrTokenExpired) {
			reason, hint = "expired", constant.TOKEN_EXPIRED_HINT
		}
		metrics.TokenRejections.WithLabelValues(reason).Inc()
		zap.L().Debug("token rejected", zap.String("reason", reason), zap.Error(err))
		return entities.User{}, apperr.Auth(constant.INVALID_TOKEN, err).WithDetail(hint)
	}

	user, err := s.repository.FindActiveUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.TokenRejections.WithLabelValues("unknown_user").Inc()
			return entities.User{}, apperr.Auth(constant.INVALID_TOKEN, ErrUnknownUser).WithDetail(constant.TOKEN_USER_HINT)
		}
		return entities.User{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return user, nil
}

// Refresh issues a new token. Earlier tokens stay valid until they expire.
func (s *service) Refresh(_ context.Context, user entities.User) (dtos.Session, error) {
	return s.session(user)
}

func (s *service) ChangePassword(ctx context.Context, userID uint, req dtos.ChangePasswordDTO) error {
	if len(req.NewPassword) < constant.MinPasswordLength {
		return apperr.Validation(fmt.Sprintf(constant.PASSWORD_TOO_SHORT, constant.MinPasswordLength))
	}

	user, err := s.repository.FindActiveUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(fmt.Sprintf(constant.CANT_FIND, "User"))
		}
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperr.Validation(constant.WRONG_PASSWORD)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	if err := s.repository.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return nil
}

func (s *service) Deactivate(ctx context.Context, userID uint) error {
	if err := s.repository.Deactivate(ctx, userID); err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	zap.L().Info("user deactivated", zap.Uint("user_id", userID))
	return nil
}

func (s *service) session(user entities.User) (dtos.Session, error) {
	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return dtos.Session{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	return dtos.Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("capital-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}
