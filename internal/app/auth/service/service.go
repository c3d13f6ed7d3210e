package service

import (
	"context"
	"io"
	"reflect"
	"strings"
	"unicode"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/app/auth/password"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/infra/config"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Sender delivers outbound mail. Sends are fire-and-forget: a failure is
// logged and never fails the request that triggered it.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AvatarUploader stores an image with the external host and returns its
// public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
}

type Service interface {
	Register(ctx context.Context, d dto.RegisterDTO) (model.User, error)
	Login(ctx context.Context, d dto.LoginDTO) (model.TokenPair, error)
	Refresh(ctx context.Context, d dto.RefreshDTO) (model.TokenPair, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, d dto.ResetPasswordDTO) error

	// CurrentUser resolves a bearer token into a verified identity. Invoked
	// once per protected request.
	CurrentUser(ctx context.Context, accessToken string) (model.User, error)

	UpdateProfile(ctx context.Context, user model.User, patch model.UserPatch) (model.User, error)
	UpdateAvatar(ctx context.Context, user model.User, file io.Reader) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type authService struct {
	userRepo repo.UserRepo
	cache    repo.IdentityCache
	jwtUtil  jwt.Util
	hasher   *password.Hasher
	mail     Sender
	avatars  AvatarUploader
	cfg      *config.Config
	v        *validator.Validate
	log      *zap.Logger
}

func New(
	ur repo.UserRepo,
	cache repo.IdentityCache,
	jm jwt.Util,
	hasher *password.Hasher,
	mail Sender,
	avatars AvatarUploader,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		userRepo: ur, cache: cache, jwtUtil: jm, hasher: hasher,
		mail: mail, avatars: avatars, cfg: cfg, v: v, log: log,
	}
}

// NewValidator returns a validator with the service's custom rules
// registered. Field names in validation errors come from the wire tags,
// never from Go struct fields.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		if len(pwd) < 8 {
			return false
		}
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return hasUpper && hasDigit
	})
	return v
}
