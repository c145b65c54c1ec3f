package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/database/dbtest"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeMailer struct {
	mu    sync.Mutex
	codes []string
	fail  error
}

func (f *fakeMailer) SendResetCode(_ context.Context, _, _, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	return f.fail
}

func (f *fakeMailer) last(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.codes, "no code was mailed")
	return f.codes[len(f.codes)-1]
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	svc    Service
	db     *gorm.DB
	mailer *fakeMailer
	clock  *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := &fakeMailer{}
	issuer := NewTokenIssuer("test-secret", WithIssuerClock(clock.Now))
	svc := NewService(NewRepo(db), issuer, m, WithClock(clock.Now), WithBcryptCost(bcrypt.MinCost))
	return &fixture{svc: svc, db: db, mailer: m, clock: clock}
}

func (f *fixture) register(t *testing.T, email, password string) dtos.Session {
	t.Helper()
	session, err := f.svc.Register(t.Context(), dtos.DTOForUserCreate{Name: "Ana", Email: email, Password: password})
	require.NoError(t, err)
	return session
}

func (f *fixture) tokenRows(t *testing.T, userID uint) []entities.PasswordResetToken {
	t.Helper()
	var rows []entities.PasswordResetToken
	require.NoError(t, f.db.Where("user_id = ?", userID).Find(&rows).Error)
	return rows
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	require.Equal(t, kind, appErr.Kind, appErr.Error())
	return appErr
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()

	registered := f.register(t, " Ana@Example.com ", "secret1")
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	session, err := f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now().Add(constant.TokenTTL), session.ExpiresAt)

	user, err := f.svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ana@example.com", "secret1")

	_, err := f.svc.Register(t.Context(), dtos.DTOForUserCreate{Name: "Other", Email: "ANA@example.com", Password: "secret2"})
	requireKind(t, err, apperr.KindConflict)
}

func TestRegisterShortPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(t.Context(), dtos.DTOForUserCreate{Name: "Ana", Email: "ana@example.com", Password: "12345"})
	requireKind(t, err, apperr.KindValidation)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.register(t, "ana@example.com", "secret1")

	_, wrongPassword := f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ana@example.com", Password: "nope"})
	_, unknownEmail := f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ghost@example.com", Password: "secret1"})

	a := requireKind(t, wrongPassword, apperr.KindAuth)
	b := requireKind(t, unknownEmail, apperr.KindAuth)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Detail, b.Detail)
}

func TestAuthenticateRejections(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")

	t.Run("malformed", func(t *testing.T) {
		_, err := f.svc.Authenticate(ctx, "abc.def.ghi")
		appErr := requireKind(t, err, apperr.KindAuth)
		assert.ErrorIs(t, err, ErrTokenMalformed)
		assert.Equal(t, constant.INVALID_TOKEN, appErr.Message)
	})

	t.Run("expired", func(t *testing.T) {
		issued, _, err := NewTokenIssuer("test-secret", WithIssuerClock(func() time.Time {
			return f.clock.Now().Add(-constant.TokenTTL - time.Minute)
		})).Issue(session.User)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, issued)
		appErr := requireKind(t, err, apperr.KindAuth)
		assert.ErrorIs(t, err, ErrTokenExpired)
		// same external message as a malformed token
		assert.Equal(t, constant.INVALID_TOKEN, appErr.Message)
	})

	t.Run("deactivated user", func(t *testing.T) {
		require.NoError(t, f.svc.Deactivate(ctx, session.User.ID))

		_, err := f.svc.Authenticate(ctx, session.Token)
		requireKind(t, err, apperr.KindAuth)
		assert.ErrorIs(t, err, ErrUnknownUser)

		_, err = f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ana@example.com", Password: "secret1"})
		requireKind(t, err, apperr.KindAuth)
	})
}

func TestRefreshKeepsOldTokenValid(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	first := f.register(t, "ana@example.com", "secret1")

	f.clock.Advance(time.Hour)
	renewed, err := f.svc.Refresh(ctx, first.User)
	require.NoError(t, err)
	assert.True(t, renewed.ExpiresAt.After(first.ExpiresAt))

	for _, tok := range []string{first.Token, renewed.Token} {
		_, err := f.svc.Authenticate(ctx, tok)
		assert.NoError(t, err)
	}

	f.clock.Advance(constant.TokenTTL - 30*time.Minute)
	_, err = f.svc.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = f.svc.Authenticate(ctx, renewed.Token)
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")

	err := f.svc.ChangePassword(ctx, session.User.ID, dtos.ChangePasswordDTO{CurrentPassword: "wrong!", NewPassword: "secret2"})
	requireKind(t, err, apperr.KindValidation)

	require.NoError(t, f.svc.ChangePassword(ctx, session.User.ID, dtos.ChangePasswordDTO{CurrentPassword: "secret1", NewPassword: "secret2"}))
	_, err = f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ana@example.com", Password: "secret2"})
	assert.NoError(t, err)
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.RequestReset(t.Context(), "ghost@example.com"))
	assert.Empty(t, f.mailer.codes)
}

func TestRequestResetTwiceLeavesOneValidToken(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")

	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	firstCode := f.mailer.last(t)
	f.clock.Advance(time.Minute)
	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	secondCode := f.mailer.last(t)

	rows := f.tokenRows(t, session.User.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, hashCode(secondCode), rows[0].CodeHash)
	assert.Equal(t, rows[0].CreatedAt.Add(constant.ResetCodeTTL), rows[0].ExpiresAt)

	if firstCode != secondCode {
		err := f.svc.VerifyResetCode(ctx, "ana@example.com", firstCode)
		requireKind(t, err, apperr.KindValidation)
	}
	assert.NoError(t, f.svc.VerifyResetCode(ctx, "ana@example.com", secondCode))
}

func TestResetRoundTripConsumesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")

	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	code := f.mailer.last(t)

	require.NoError(t, f.svc.VerifyResetCode(ctx, "ana@example.com", code))
	// verifying does not consume
	require.NoError(t, f.svc.VerifyResetCode(ctx, "ana@example.com", code))

	require.NoError(t, f.svc.CompleteReset(ctx, "ana@example.com", code, "newpass"))

	rows := f.tokenRows(t, session.User.ID)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Used)

	err := f.svc.CompleteReset(ctx, "ana@example.com", code, "another")
	requireKind(t, err, apperr.KindValidation)
	err = f.svc.VerifyResetCode(ctx, "ana@example.com", code)
	requireKind(t, err, apperr.KindValidation)

	_, err = f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ana@example.com", Password: "newpass"})
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, dtos.DTOForUserLogin{Email: "ana@example.com", Password: "secret1"})
	requireKind(t, err, apperr.KindAuth)
}

func TestResetCodeExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.register(t, "ana@example.com", "secret1")

	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	code := f.mailer.last(t)

	f.clock.Advance(constant.ResetCodeTTL - time.Second)
	require.NoError(t, f.svc.VerifyResetCode(ctx, "ana@example.com", code))

	// verified a moment ago, expired now: completion re-checks the clock
	f.clock.Advance(time.Second)
	err := f.svc.CompleteReset(ctx, "ana@example.com", code, "newpass")
	requireKind(t, err, apperr.KindValidation)
	err = f.svc.VerifyResetCode(ctx, "ana@example.com", code)
	requireKind(t, err, apperr.KindValidation)
}

func TestResetFailuresLookTheSame(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	f.register(t, "ana@example.com", "secret1")
	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	code := f.mailer.last(t)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	var messages []string
	for _, err := range []error{
		f.svc.VerifyResetCode(ctx, "ana@example.com", wrong),
		f.svc.VerifyResetCode(ctx, "ghost@example.com", code),
		f.svc.CompleteReset(ctx, "ghost@example.com", code, "newpass"),
		f.svc.CompleteReset(ctx, "ana@example.com", "12", "newpass"),
	} {
		messages = append(messages, requireKind(t, err, apperr.KindValidation).Message)
	}
	for _, msg := range messages {
		assert.Equal(t, constant.INVALID_RESET_CODE, msg)
	}
}

func TestCompleteResetShortPasswordKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")
	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	code := f.mailer.last(t)

	err := f.svc.CompleteReset(ctx, "ana@example.com", code, "12345")
	requireKind(t, err, apperr.KindValidation)

	rows := f.tokenRows(t, session.User.ID)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Used)
	assert.NoError(t, f.svc.CompleteReset(ctx, "ana@example.com", code, "123456"))
}

func TestCompleteResetPurgesSiblingTokens(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")
	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	code := f.mailer.last(t)

	// a stray row that slipped in next to the live one
	stray := entities.PasswordResetToken{
		UserID:    session.User.ID,
		CodeHash:  hashCode("999999"),
		CreatedAt: f.clock.Now(),
		ExpiresAt: f.clock.Now().Add(constant.ResetCodeTTL),
	}
	require.NoError(t, f.db.Create(&stray).Error)
	require.Len(t, f.tokenRows(t, session.User.ID), 2)

	require.NoError(t, f.svc.CompleteReset(ctx, "ana@example.com", code, "newpass"))
	rows := f.tokenRows(t, session.User.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, hashCode(code), rows[0].CodeHash)
}

func TestRequestResetDeliveryFailureKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")
	f.mailer.fail = errors.New("smtp down")

	err := f.svc.RequestReset(ctx, "ana@example.com")
	requireKind(t, err, apperr.KindDelivery)

	require.Len(t, f.tokenRows(t, session.User.ID), 1)
	code := f.mailer.last(t)
	assert.NoError(t, f.svc.VerifyResetCode(ctx, "ana@example.com", code))
}

func TestResetCodeStopsWorkingAfterDeactivation(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	session := f.register(t, "ana@example.com", "secret1")
	require.NoError(t, f.svc.RequestReset(ctx, "ana@example.com"))
	code := f.mailer.last(t)

	require.NoError(t, f.svc.Deactivate(ctx, session.User.ID))

	appErr := requireKind(t, f.svc.VerifyResetCode(ctx, "ana@example.com", code), apperr.KindValidation)
	assert.Equal(t, constant.INVALID_RESET_CODE, appErr.Message)
	appErr = requireKind(t, f.svc.CompleteReset(ctx, "ana@example.com", code, "newpass"), apperr.KindValidation)
	assert.Equal(t, constant.INVALID_RESET_CODE, appErr.Message)

	rows := f.tokenRows(t, session.User.ID)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Used)

	var stored entities.User
	require.NoError(t, f.db.First(&stored, session.User.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")), "password untouched")
}
