package jwt

import (
	"time"

	customErrors "github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/contact-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
)

// Util signs and verifies the service's tokens. All four flavors (access,
// refresh, verification, reset) share the same claim shape {sub, iat, exp}
// and differ only by TTL; decoding is a pure check of signature and expiry
// and never consults a store.
type Util interface {
	Issue(subject string, ttl time.Duration) (string, error)
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	Decode(raw string) (subject string, err error)
}

type hmacUtil struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewUtil(cfg *config.Config) (*hmacUtil, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, customErrors.NewInvalidArgument("unsupported signing algorithm " + cfg.JWTAlgorithm)
	}
	return &hmacUtil{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (u *hmacUtil) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(u.method, claims).SignedString(u.secret)
	if err != nil {
		return "", customErrors.WrapInternal(err, "sign token")
	}
	return signed, nil
}

func (u *hmacUtil) IssueAccess(subject string) (string, error) {
	return u.Issue(subject, u.accessTTL)
}

func (u *hmacUtil) IssueRefresh(subject string) (string, error) {
	return u.Issue(subject, u.refreshTTL)
}

func (u *hmacUtil) Decode(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != u.method.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return u.secret, nil
	})
	if err != nil || !token.Valid {
		return "", customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", customErrors.ErrInvalidToken
	}
	return claims.Subject, nil
}
