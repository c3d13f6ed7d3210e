package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

type UserRepo interface {
	// CreateUser persists a new user. Returns ErrAlreadyExists when the
	// email is taken; the unique index makes concurrent duplicates resolve
	// to exactly one winner.
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)

	// UpdateUser persists mutated fields (verification flag, password hash,
	// refresh token, avatar, email).
	UpdateUser(ctx context.Context, u model.User) error

	ListUsers(ctx context.Context) ([]model.User, error)
}
