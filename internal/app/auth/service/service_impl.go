package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// invalidArgument turns a validation failure into a short reason naming
// only wire-level field names, never Go types.
func invalidArgument(err error) error {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) && len(verr) > 0 {
		fields := make([]string, 0, len(verr))
		for _, fe := range verr {
			fields = append(fields, fe.Field())
		}
		return customErrors.NewInvalidArgument("invalid " + strings.Join(fields, ", "))
	}
	return customErrors.NewInvalidArgument("invalid request body")
}

func (a *authService) Register(ctx context.Context, d dto.RegisterDTO) (model.User, error) {
	if err := a.v.Struct(d); err != nil {
		return model.User{}, invalidArgument(err)
	}

	hash, err := a.hasher.Hash(d.Password)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:           uuid.New(),
		Email:        d.Email,
		PasswordHash: hash,
		IsVerified:   a.cfg.Testing,
		Role:         model.RoleUser,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	if !a.cfg.Testing {
		token, err := a.jwtUtil.IssueAccess(user.Email)
		if err != nil {
			return model.User{}, customErrors.WrapInternal(err, "Register")
		}
		a.sendAsync(user.Email, "Email verification",
			fmt.Sprintf("Please confirm your email:\n%s/api/auth/verify?token=%s", a.cfg.BaseURL, token))
	}

	return user, nil
}

func (a *authService) Login(ctx context.Context, d dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.TokenPair{}, invalidArgument(err)
	}

	user, err := a.userRepo.GetUserByEmail(ctx, d.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	if !a.hasher.Verify(d.Password, user.PasswordHash) {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return model.TokenPair{}, customErrors.ErrEmailNotVerified
	}

	return a.issuePair(ctx, user)
}

func (a *authService) Refresh(ctx context.Context, d dto.RefreshDTO) (model.TokenPair, error) {
	if err := a.v.Struct(d); err != nil {
		return model.TokenPair{}, invalidArgument(err)
	}

	email, err := a.jwtUtil.Decode(d.RefreshToken)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	// At most one live refresh token per user: a login or an earlier
	// refresh overwrote the stored value, so anything else is dead.
	if user.RefreshToken == "" || user.RefreshToken != d.RefreshToken {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	return a.issuePair(ctx, user)
}

// issuePair mints a fresh access+refresh pair and persists the refresh
// token, invalidating any previous one.
func (a *authService) issuePair(ctx context.Context, user model.User) (model.TokenPair, error) {
	access, err := a.jwtUtil.IssueAccess(user.Email)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueAccess")
	}
	refresh, err := a.jwtUtil.IssueRefresh(user.Email)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueRefresh")
	}

	user.RefreshToken = refresh
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "StoreRefresh")
	}
	a.purge(ctx, user.Email)

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (a *authService) VerifyEmail(ctx context.Context, token string) error {
	email, err := a.jwtUtil.Decode(token)
	if err != nil {
		return customErrors.NewInvalidArgument("invalid or expired token")
	}

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.NewInvalidArgument("invalid or expired token")
	case err != nil:
		return customErrors.WrapInternal(err, "VerifyEmail")
	}

	// Verifying an already-verified user is harmless.
	if user.IsVerified {
		return nil
	}

	user.IsVerified = true
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		return customErrors.WrapInternal(err, "VerifyEmail")
	}
	a.purge(ctx, user.Email)
	return nil
}

func (a *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// Same acknowledgment as the found case: account existence must
		// not leak here.
		return nil
	case err != nil:
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}

	token, err := a.jwtUtil.IssueAccess(user.Email)
	if err != nil {
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}
	a.sendAsync(user.Email, "Password reset",
		fmt.Sprintf("To reset your password, follow the link:\n%s/reset-password?token=%s", a.cfg.BaseURL, token))
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, d dto.ResetPasswordDTO) error {
	if err := a.v.Struct(d); err != nil {
		return invalidArgument(err)
	}

	email, err := a.jwtUtil.Decode(d.Token)
	if err != nil {
		return customErrors.NewInvalidArgument("invalid token")
	}

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.NewInvalidArgument("invalid token")
	case err != nil:
		return customErrors.WrapInternal(err, "ResetPassword")
	}

	hash, err := a.hasher.Hash(d.NewPassword)
	if err != nil {
		return customErrors.WrapInternal(err, "ResetPassword")
	}

	// Outstanding access/refresh tokens are left to expire naturally.
	user.PasswordHash = hash
	if err := a.userRepo.UpdateUser(ctx, user); err != nil {
		return customErrors.WrapInternal(err, "ResetPassword")
	}
	a.purge(ctx, user.Email)
	return nil
}

func (a *authService) UpdateProfile(ctx context.Context, user model.User, patch model.UserPatch) (model.User, error) {
	if err := a.v.Struct(patch); err != nil {
		return model.User{}, invalidArgument(err)
	}

	// The resolver may have served a cached identity without the hash;
	// mutate the stored record.
	stored, err := a.userRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	oldEmail := stored.Email

	if patch.Email != nil && *patch.Email != stored.Email {
		if _, err := a.userRepo.GetUserByEmail(ctx, *patch.Email); err == nil {
			return model.User{}, customErrors.ErrAlreadyExists
		} else if !errors.Is(err, customErrors.ErrNotFound) {
			return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
		}
		stored.Email = *patch.Email
	}
	if patch.Password != nil {
		hash, err := a.hasher.Hash(*patch.Password)
		if err != nil {
			return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
		}
		stored.PasswordHash = hash
	}
	if patch.AvatarURL != nil {
		stored.AvatarURL = *patch.AvatarURL
	}

	if err := a.userRepo.UpdateUser(ctx, stored); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	a.purge(ctx, oldEmail)
	if stored.Email != oldEmail {
		a.purge(ctx, stored.Email)
	}
	return stored, nil
}

func (a *authService) UpdateAvatar(ctx context.Context, user model.User, file io.Reader) (model.User, error) {
	url, err := a.avatars.Upload(ctx, file)
	if err != nil {
		return model.User{}, customErrors.WrapUpstream(err, "UpdateAvatar")
	}

	stored, err := a.userRepo.GetUserByID(ctx, user.ID)
	if err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateAvatar")
	}
	stored.AvatarURL = url
	if err := a.userRepo.UpdateUser(ctx, stored); err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateAvatar")
	}
	a.purge(ctx, stored.Email)
	return stored, nil
}

func (a *authService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "ListUsers")
	}
	return users, nil
}

// sendAsync delivers mail off the request path. Delivery failure is logged
// and never surfaces to the caller.
func (a *authService) sendAsync(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := a.mail.Send(ctx, to, subject, body); err != nil {
			a.log.Warn("mail delivery failed",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}

func (a *authService) purge(ctx context.Context, email string) {
	if err := a.cache.Purge(ctx, email); err != nil {
		a.log.Warn("identity cache purge failed", zap.Error(err))
	}
}
