package ctxutil

import (
	"context"
	"time"

	"github.com/edusuite/scolaris/internal/models"
)

// private keys to avoid collisions
type key int

const (
	keyUserID key = iota
	keyRole
	keyOpName
)

// WithUserID carries the authenticated user's id through a request.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

func UserID(ctx context.Context) (int64, bool) {
	v := ctx.Value(keyUserID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func WithRole(ctx context.Context, role models.Role) context.Context {
	return context.WithValue(ctx, keyRole, role)
}

func Role(ctx context.Context) (models.Role, bool) {
	v := ctx.Value(keyRole)
	if v == nil {
		return "", false
	}
	r, ok := v.(models.Role)
	return r, ok
}

// WithOp names the operation for logs.
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	v := ctx.Value(keyOpName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

var DefaultDBTimeout = 5 * time.Second

func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout applies the standard DB timeout, keeping whatever smaller
// deadline the parent already carries.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
