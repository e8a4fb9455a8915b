package auth

import (
	"net/http"
	"strings"
)

// Role is the access level carried in a token.
type Role string

const (
	// RoleViewer may list, fetch and export panels.
	RoleViewer Role = "viewer"
	// RoleOperator may also add, update and remove panels.
	RoleOperator Role = "operator"
)

// ParseRole accepts the role names tokens are issued with.
func ParseRole(value string) (Role, bool) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleViewer, RoleOperator:
		return role, true
	default:
		return "", false
	}
}

// Allows reports whether r is enough for an endpoint requiring required.
// Operators can do everything viewers can.
func (r Role) Allows(required Role) bool {
	switch required {
	case RoleViewer:
		return r == RoleViewer || r == RoleOperator
	case RoleOperator:
		return r == RoleOperator
	default:
		return false
	}
}

const panelPath = "/solar-panel"

// Policy maps requests to the role they need.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth/RBAC.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequiredRole resolves the role a panel request needs. Reads and exports
// need a viewer, mutations an operator. Other paths are not guarded.
func (p Policy) RequiredRole(r *http.Request) (Role, bool) {
	if r == nil {
		return "", false
	}
	if r.URL.Path != panelPath && !strings.HasPrefix(r.URL.Path, panelPath+"/") {
		return "", false
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return RoleViewer, true
	default:
		return RoleOperator, true
	}
}
