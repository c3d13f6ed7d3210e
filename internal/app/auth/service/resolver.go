package service

import (
	"context"
	"errors"

	customErrors "github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"go.uber.org/zap"
)

// CurrentUser turns a presented bearer token into a verified identity.
//
// The cache is only ever populated from a lookup that already passed the
// verification check, so a hit can be served without re-checking; every
// user mutation purges the entry, which bounds staleness to unrelated
// concurrent reads.
func (a *authService) CurrentUser(ctx context.Context, accessToken string) (model.User, error) {
	email, err := a.jwtUtil.Decode(accessToken)
	if err != nil {
		return model.User{}, customErrors.ErrInvalidToken
	}

	if ident, ok, err := a.cache.Get(ctx, email); err != nil {
		a.log.Warn("identity cache read failed", zap.Error(err))
	} else if ok {
		return ident.User(), nil
	}

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.ErrNotFound
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "CurrentUser")
	}

	if !user.IsVerified && !a.cfg.Testing {
		return model.User{}, customErrors.ErrEmailNotVerified
	}

	if err := a.cache.Set(ctx, model.Cacheable(user)); err != nil {
		a.log.Warn("identity cache write failed", zap.Error(err))
	}
	return user, nil
}
