package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/reforged/reforged/token"
	"github.com/reforged/reforged/users"
)

// RequestPasswordReset issues a short-lived password reset token for the
// account behind the email. An unknown email succeeds silently with zero
// values so the endpoint never reveals whether an account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, time.Time, error) {
	if !ValidEmail(email) {
		verr := NewValidationError()
		verr.Add("email", "must be a valid email address")
		return "", time.Time{}, verr
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", time.Time{}, nil
		}
		return "", time.Time{}, errors.Wrap(ErrUnexpected, err.Error())
	}

	claims := token.NewClaims(user.ID, user.Email, DefaultRole, s.resetTokenExpiry, token.PurposePasswordReset)
	resetToken, expiresAt, err := s.tokenService.Generate(claims, s.resetTokenExpiry)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Service.RequestPasswordReset] generating reset token")
	}

	return resetToken, expiresAt, nil
}

// ResetPassword replaces the account password named by a valid reset token.
func (s *Service) ResetPassword(ctx context.Context, resetToken, password, confirmation string) error {
	claims, err := s.tokenService.Validate(resetToken, token.PurposePasswordReset)
	if err != nil {
		return err
	}

	if verr := validateNewPassword(password, confirmation); verr != nil {
		return verr
	}

	user, err := s.userRepo.GetByID(ctx, claims.ID)
	if err != nil {
		return FromRepoError(err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return ErrPasswordHashingFailed
	}

	user.SetPassword(hashed)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return FromRepoError(err)
	}

	return nil
}

// RequestEmailVerification issues a verification token for the account.
func (s *Service) RequestEmailVerification(ctx context.Context, email string) (string, time.Time, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, FromRepoError(err)
	}

	claims := token.NewClaims(user.ID, user.Email, DefaultRole, s.verifyTokenExpiry, token.PurposeEmailVerification)
	verifyToken, expiresAt, err := s.tokenService.Generate(claims, s.verifyTokenExpiry)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "[Service.RequestEmailVerification] generating verification token")
	}

	return verifyToken, expiresAt, nil
}

// VerifyEmail marks the account named by a valid verification token as
// verified. Verifying an already verified account is a no-op.
func (s *Service) VerifyEmail(ctx context.Context, verifyToken string) error {
	claims, err := s.tokenService.Validate(verifyToken, token.PurposeEmailVerification)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, claims.ID)
	if err != nil {
		return FromRepoError(err)
	}

	if user.EmailVerified {
		return nil
	}

	user.MarkEmailVerified(s.nowTime())
	if err := s.userRepo.Update(ctx, user); err != nil {
		return FromRepoError(err)
	}

	return nil
}
