// Package session holds the client-side authentication state of one
// principal kind, and the guards that gate views on it.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"ragrids/internal/auth"
	"ragrids/internal/client"
)

// Principal is the signed-in identity.
type Principal struct {
	ID    string    `json:"id"`
	Kind  auth.Kind `json:"kind"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// State is either anonymous (nil Principal) or authenticated.
type State struct {
	Principal *Principal `json:"principal,omitempty"`
	Token     string     `json:"token,omitempty"`
}

// Authenticated reports whether the state carries a principal and token.
func (s State) Authenticated() bool {
	return s.Principal != nil && s.Token != ""
}

// Authenticator performs the server side of login and logout.
type Authenticator interface {
	Login(ctx context.Context, kind auth.Kind, email, password string) (*client.Login, error)
	Logout(ctx context.Context, kind auth.Kind) error
}

// Context owns the session of one principal kind. Views read it through
// Current and Subscribe; the Store is only its persistence.
type Context struct {
	kind  auth.Kind
	store Store
	authn Authenticator

	mu     sync.RWMutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// New restores the persisted session of kind without contacting the server.
// Expired tokens are restored too; the first 401 invalidates them.
func New(kind auth.Kind, store Store, authn Authenticator) *Context {
	c := &Context{
		kind:  kind,
		store: store,
		authn: authn,
		subs:  map[int]func(State){},
	}
	st, err := store.Load()
	switch {
	case err != nil:
		log.Warn().Err(err).Str("kind", kind.String()).Msg("discarding unreadable session")
		_ = store.Clear()
	case st.Authenticated() && st.Principal.Kind == kind:
		c.state = st
	}
	return c
}

// Kind is the principal kind this context serves.
func (c *Context) Kind() auth.Kind {
	return c.kind
}

// Current returns the current state.
func (c *Context) Current() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers fn to run after every transition and returns a func
// that removes it.
func (c *Context) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Login authenticates against the server and persists the new session. On
// failure the state is unchanged.
func (c *Context) Login(ctx context.Context, email, password string) (State, error) {
	res, err := c.authn.Login(ctx, c.kind, email, password)
	if err != nil {
		return c.Current(), err
	}
	st := State{
		Principal: &Principal{
			ID:    res.Principal.ID,
			Kind:  c.kind,
			Name:  res.Principal.Name,
			Email: res.Principal.Email,
		},
		Token: res.Token,
	}
	if err := c.store.Save(st); err != nil {
		return c.Current(), err
	}
	c.transition(st)
	return st, nil
}

// Logout tells the server, then always clears the local session. The server
// error is returned for reporting only.
func (c *Context) Logout(ctx context.Context) error {
	err := c.authn.Logout(ctx, c.kind)
	c.Invalidate()
	return err
}

// Invalidate drops the session locally, typically after a 401.
func (c *Context) Invalidate() {
	if err := c.store.Clear(); err != nil {
		log.Warn().Err(err).Str("kind", c.kind.String()).Msg("clearing session store")
	}
	c.transition(State{})
}

func (c *Context) transition(st State) {
	c.mu.Lock()
	c.state = st
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}
