package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/capital/finance/pkg/apperr"
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/metrics"
	"github.com/capital/finance/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// errInvalidCode covers every way a code can fail. Callers never learn which.
var errInvalidCode = apperr.Validation(constant.INVALID_RESET_CODE)

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// RequestReset replaces the user's reset tokens with a fresh code and mails
// it. Unknown emails succeed silently. When mailing fails the new token is
// kept and a delivery error is returned.
func (s *service) RequestReset(ctx context.Context, email string) error {
	user, err := s.repository.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.ResetRequests.WithLabelValues("unknown_email").Inc()
			return nil
		}
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	if !user.Active {
		metrics.ResetRequests.WithLabelValues("inactive_user").Inc()
		return nil
	}

	code, err := utils.GenerateVerificationCode(constant.ResetCodeLength)
	if err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	now := s.now()
	token := entities.PasswordResetToken{
		UserID:    user.ID,
		CodeHash:  hashCode(code),
		CreatedAt: now,
		ExpiresAt: now.Add(constant.ResetCodeTTL),
	}
	err = s.repository.Transaction(ctx, func(r Repository) error {
		if err := r.DeleteResetTokens(ctx, user.ID); err != nil {
			return err
		}
		return r.CreateResetToken(ctx, &token)
	})
	if err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	if err := s.mailer.SendResetCode(ctx, user.Email, user.Name, code); err != nil {
		metrics.ResetRequests.WithLabelValues("delivery_failed").Inc()
		zap.L().Error("reset code delivery failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return apperr.Delivery(constant.RESET_DELIVERY_ERROR, err)
	}

	metrics.ResetRequests.WithLabelValues("sent").Inc()
	zap.L().Info("reset code sent", zap.Uint("user_id", user.ID), zap.Uint("token_id", token.ID))
	return nil
}

// VerifyResetCode checks a code without consuming it.
func (s *service) VerifyResetCode(ctx context.Context, email, code string) error {
	_, _, err := s.findValidToken(ctx, s.repository, email, code)
	return err
}

// CompleteReset re-validates the code, stores the new password, marks the
// token used and drops every other token of the user, all in one transaction.
func (s *service) CompleteReset(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < constant.MinPasswordLength {
		return apperr.Validation(fmt.Sprintf(constant.PASSWORD_TOO_SHORT, constant.MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	err = s.repository.Transaction(ctx, func(r Repository) error {
		user, token, err := s.findValidToken(ctx, r, email, code)
		if err != nil {
			return err
		}

		consumed, err := r.MarkResetTokenUsed(ctx, token.ID)
		if err != nil {
			return err
		}
		if !consumed {
			// lost a race with another completion of the same code
			return errInvalidCode
		}

		if err := r.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		return r.DeleteResetTokensExcept(ctx, user.ID, token.ID)
	})
	if err != nil {
		metrics.ResetCompletions.WithLabelValues(metrics.ResultFailure).Inc()
		if apperr.KindOf(err) == apperr.KindValidation {
			return err
		}
		return apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	metrics.ResetCompletions.WithLabelValues(metrics.ResultSuccess).Inc()
	return nil
}

func (s *service) findValidToken(ctx context.Context, r Repository, email, code string) (entities.User, entities.PasswordResetToken, error) {
	user, err := r.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, entities.PasswordResetToken{}, errInvalidCode
		}
		return entities.User{}, entities.PasswordResetToken{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}
	if !user.Active {
		return entities.User{}, entities.PasswordResetToken{}, errInvalidCode
	}

	token, err := r.FindResetToken(ctx, user.ID, hashCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, entities.PasswordResetToken{}, errInvalidCode
		}
		return entities.User{}, entities.PasswordResetToken{}, apperr.Internal(constant.SOMETHING_WENT_WRONG, err)
	}

	if !token.Valid(s.now()) {
		return entities.User{}, entities.PasswordResetToken{}, errInvalidCode
	}
	return user, token, nil
}
