package errors

import (
	"fmt"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{NewInvalidArgument("bad email"), IsInvalidArgument},
		{WrapInternal(fmt.Errorf("boom"), "ctx"), IsInternal},
		{WrapUpstream(fmt.Errorf("503"), "cloudinary"), IsUpstream},
		{ErrNotFound, IsNotFound},
		{ErrInvalidCredentials, IsInvalidCredentials},
		{ErrAlreadyExists, IsAlreadyExists},
		{ErrInvalidToken, IsInvalidToken},
		{ErrEmailNotVerified, IsEmailNotVerified},
		{ErrForbidden, IsForbidden},
	}
	for _, c := range cases {
		if !c.pred(c.err) {
			t.Fatalf("predicate did not match %v", c.err)
		}
	}
}

func TestPredicates_NoCrossMatch(t *testing.T) {
	if IsInvalidToken(ErrInvalidCredentials) {
		t.Fatal("invalid credentials must not match invalid token")
	}
	if IsInternal(NewInvalidArgument("x")) {
		t.Fatal("invalid argument must not match internal")
	}
}

func TestReason_StripsTaxonomyPrefix(t *testing.T) {
	if got := Reason(NewInvalidArgument("invalid or expired token")); got != "invalid or expired token" {
		t.Fatalf("unexpected reason: %s", got)
	}
}

func TestWrapInternal_KeepsContext(t *testing.T) {
	err := WrapInternal(fmt.Errorf("pq: down"), "CreateUser")
	if got := err.Error(); got != "internal error: CreateUser: pq: down" {
		t.Fatalf("unexpected message: %s", got)
	}
}
