package services

import (
	"errors"
	"fmt"
)

// Domain error kinds. Every engine operation returns nil or an error that
// wraps exactly one of these.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrSelfReference    = errors.New("actor and target are the same user")
	ErrAlreadyFollowing = errors.New("already following")
	ErrNotFollowing     = errors.New("not following")
	ErrAlreadyLiked     = errors.New("already liked")
	ErrNotLiked         = errors.New("not liked")
	ErrAlreadyReviewed  = errors.New("already reviewed")
	ErrInternal         = errors.New("internal error")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrValidation, "validation"},
	{ErrNotFound, "not_found"},
	{ErrForbidden, "forbidden"},
	{ErrSelfReference, "self_reference"},
	{ErrAlreadyFollowing, "already_following"},
	{ErrNotFollowing, "not_following"},
	{ErrAlreadyLiked, "already_liked"},
	{ErrNotLiked, "not_liked"},
	{ErrAlreadyReviewed, "already_reviewed"},
	{ErrInternal, "internal"},
}

// ErrorKind returns the stable kind name of err, or "internal" for errors
// that carry no domain kind.
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

func forbiddenError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// internalError wraps a storage failure. The original error stays in the
// chain for logging.
func internalError(op string, err error) error {
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
