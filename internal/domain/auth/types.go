package auth

// Package auth contains domain-level types for authentication and identity.
// It is pure and free of framework/adapter concerns.

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Token is the opaque bearer credential issued by the authentication service.
// The empty token means "no session".
type Token string

// IsEmpty reports whether the token is absent.
func (t Token) IsEmpty() bool { return strings.TrimSpace(string(t)) == "" }

const (
	// RoleDefault is the sentinel role assigned when the server reports no roles.
	RoleDefault = "ROLE_DEFAULT"
	// SuperAdminRole satisfies every role check.
	SuperAdminRole = "admin"
	// AllPermission satisfies every permission check.
	AllPermission = "*:*:*"
)

// State is the lifecycle phase of an identity session.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateIdentifying    State = "identifying"
	StateIdentified     State = "identified"
)

// Stable reports whether the state is one a failed transition can revert to.
func (s State) Stable() bool {
	switch s {
	case StateAnonymous, StateAuthenticated, StateIdentified:
		return true
	default:
		return false
	}
}

// UserID is the server-assigned user identifier. Servers send it either as a
// JSON number or a string; both decode into the same textual form.
type UserID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

// Int returns the identifier as an integer when it is numeric.
func (id UserID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// LoginInput carries the four login fields.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
	UUID     string `json:"uuid,omitempty"`
}

// User is the profile block of an identity response.
type User struct {
	UserID   UserID `json:"userId"`
	UserName string `json:"userName"`
	NickName string `json:"nickName,omitempty"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email,omitempty"`
}

// UserInfo is the raw identity response from the authentication service.
// Roles is nil when the server omitted the field.
type UserInfo struct {
	User        User     `json:"user"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Identity is the resolved profile held by a session once identified.
type Identity struct {
	ID          UserID   `json:"id"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Clone returns a deep copy so callers cannot mutate session state.
func (i Identity) Clone() Identity {
	i.Roles = slices.Clone(i.Roles)
	i.Permissions = slices.Clone(i.Permissions)
	return i
}

// HasRole reports whether the identity carries role, or the super admin role.
func (i Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, SuperAdminRole) || slices.Contains(i.Roles, role)
}

// HasPermission reports whether the identity carries perm, or the wildcard permission.
func (i Identity) HasPermission(perm string) bool {
	return slices.Contains(i.Permissions, AllPermission) || slices.Contains(i.Permissions, perm)
}

// Captcha is a verification challenge issued before login.
type Captcha struct {
	Enabled bool   `json:"captchaEnabled"`
	UUID    string `json:"uuid,omitempty"`
	Image   string `json:"img,omitempty"`
}
