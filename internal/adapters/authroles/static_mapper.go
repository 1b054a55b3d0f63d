// Package authroles maps identity provider groups onto console role keys.
package authroles

import (
	domainauth "github.com/stockdesk/console/internal/domain/auth"
	"github.com/stockdesk/console/internal/ports"
)

// RoleCommon is the role key granted to members of UserGroup.
const RoleCommon = "common"

// StaticRoleMapper maps groups by simple string membership rules.
// Extra maps further group names to role keys.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
	Extra      map[string]string
}

var _ ports.RoleMapper = StaticRoleMapper{}

// Map returns the role keys granted by groups, admin first, without duplicates.
// It returns nil when no group matches so callers can apply their empty-roles fallback.
func (m StaticRoleMapper) Map(groups []string) []string {
	var roles []string
	seen := make(map[string]struct{})
	add := func(role string) {
		if _, ok := seen[role]; ok {
			return
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}

	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			add(domainauth.SuperAdminRole)
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			add(RoleCommon)
		}
	}
	for _, g := range groups {
		if role, ok := m.Extra[g]; ok && role != "" {
			add(role)
		}
	}
	return roles
}
