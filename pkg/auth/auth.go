package auth

import (
	"context"
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"

	RoleAdmin  = "Admin"
	RoleMember = "User"
)

// Session identifies the acting user for downstream calls. It is passed
// explicitly so tests can inject fakes instead of reading ambient state.
type Session struct {
	Username string
	Role     string
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type sessionKeyType int

const sessionKey sessionKeyType = 1

func SetSessionContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
