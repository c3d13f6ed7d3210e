package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/domain/auth/model"
)

// IdentityCache is the resolver's side cache, keyed by token subject
// (email). Entries expire on their own TTL; Purge is called on every user
// mutation so a stale verification or role never outlives the change.
type IdentityCache interface {
	Get(ctx context.Context, email string) (model.CachedIdentity, bool, error)
	Set(ctx context.Context, ident model.CachedIdentity) error
	Purge(ctx context.Context, email string) error
}
