package session

import (
	"context"
	"fmt"

	"ragrids/internal/auth"
	"ragrids/internal/client"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Resolve admits st only when it is authenticated as a principal of the
// required kind; everything else is sent to that kind's login view.
func Resolve(st State, required auth.Kind) Decision {
	if st.Authenticated() && st.Principal.Kind == required {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: required.LoginPath()}
}

// RedirectError is returned by a protected view the caller may not enter.
type RedirectError struct {
	Kind auth.Kind
	To   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s session required, sign in at %s", e.Kind, e.To)
}

// View renders with an admitted session state.
type View func(ctx context.Context, st State) error

// Guard gates views on the session of one kind.
type Guard struct {
	kind auth.Kind
	sess *Context
}

// AdminGuard gates views on an admin session.
func AdminGuard(sess *Context) *Guard {
	return &Guard{kind: auth.KindAdmin, sess: sess}
}

// UserGuard gates views on a customer session.
func UserGuard(sess *Context) *Guard {
	return &Guard{kind: auth.KindUser, sess: sess}
}

// Protect wraps view. Denied calls return *RedirectError without running the
// view. A 401 from the server invalidates the session and redirects as well.
func (g *Guard) Protect(view View) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		st := g.sess.Current()
		if d := Resolve(st, g.kind); !d.Allowed {
			return &RedirectError{Kind: g.kind, To: d.RedirectTo}
		}
		err := view(ctx, st)
		if client.IsUnauthorized(err) {
			g.sess.Invalidate()
			return &RedirectError{Kind: g.kind, To: g.kind.LoginPath()}
		}
		return err
	}
}
