package auth

import "fmt"

// LogoutPolicy decides what happens to local session state when the remote
// logout call fails.
type LogoutPolicy string

const (
	// LogoutRemoteFirst clears local state only after the remote logout succeeds.
	LogoutRemoteFirst LogoutPolicy = "remote-first"
	// LogoutAlwaysClear clears local state regardless and still returns the remote error.
	LogoutAlwaysClear LogoutPolicy = "always-clear"
)

// Valid reports whether p is a known policy.
func (p LogoutPolicy) Valid() bool {
	return p == LogoutRemoteFirst || p == LogoutAlwaysClear
}

// String returns the policy name.
func (p LogoutPolicy) String() string { return string(p) }

// UnmarshalText parses a policy name. The empty string selects LogoutRemoteFirst.
func (p *LogoutPolicy) UnmarshalText(text []byte) error {
	v := LogoutPolicy(text)
	if v == "" {
		v = LogoutRemoteFirst
	}
	if !v.Valid() {
		return fmt.Errorf("invalid logout policy %q: want %s or %s", text, LogoutRemoteFirst, LogoutAlwaysClear)
	}
	*p = v
	return nil
}

// EmptyRolesPolicy decides what happens to permissions when the identity
// response carries no roles.
type EmptyRolesPolicy string

const (
	// EmptyRolesKeepPermissions leaves previously held permissions untouched.
	EmptyRolesKeepPermissions EmptyRolesPolicy = "keep-permissions"
	// EmptyRolesClearPermissions drops permissions along with the missing roles.
	EmptyRolesClearPermissions EmptyRolesPolicy = "clear-permissions"
)

// Valid reports whether p is a known policy.
func (p EmptyRolesPolicy) Valid() bool {
	return p == EmptyRolesKeepPermissions || p == EmptyRolesClearPermissions
}

// String returns the policy name.
func (p EmptyRolesPolicy) String() string { return string(p) }

// UnmarshalText parses a policy name. The empty string selects EmptyRolesKeepPermissions.
func (p *EmptyRolesPolicy) UnmarshalText(text []byte) error {
	v := EmptyRolesPolicy(text)
	if v == "" {
		v = EmptyRolesKeepPermissions
	}
	if !v.Valid() {
		return fmt.Errorf("invalid empty roles policy %q: want %s or %s", text, EmptyRolesKeepPermissions, EmptyRolesClearPermissions)
	}
	*p = v
	return nil
}
