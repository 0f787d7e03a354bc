package auth

import "fmt"

// Kind discriminates the two unrelated principal namespaces.
type Kind string

const (
	// KindAdmin identifies back-office administrators.
	KindAdmin Kind = "admin"
	// KindUser identifies registered customers.
	KindUser Kind = "user"
)

// ParseKind validates a kind supplied by a caller.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAdmin, KindUser:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown principal kind %q", s)
	}
}

// CookieName is the name of the session cookie for this kind.
func (k Kind) CookieName() string {
	if k == KindAdmin {
		return "AdminToken"
	}
	return "userToken"
}

// LoginPath is the client view unauthenticated navigation is sent to.
func (k Kind) LoginPath() string {
	if k == KindAdmin {
		return "/admin-login"
	}
	return "/UserLogin"
}

func (k Kind) String() string {
	return string(k)
}
