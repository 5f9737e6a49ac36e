package service

import (
	"strings"

	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// DefaultClaimsNamespace prefixes the custom claims added by the login action.
const DefaultClaimsNamespace = "https://retailzero.com"

// ClaimsReader turns the raw claims of an ID token into the canonical shape.
// Callers never inspect raw claims directly.
type ClaimsReader struct {
	namespace string
}

func NewClaimsReader(namespace string) *ClaimsReader {
	namespace = strings.TrimSuffix(strings.TrimSpace(namespace), "/")
	if namespace == "" {
		namespace = DefaultClaimsNamespace
	}
	return &ClaimsReader{namespace: namespace}
}

// RolesClaim is the namespaced claim key holding the role list.
func (r *ClaimsReader) RolesClaim() string { return r.namespace + "/roles" }

// Normalize extracts roles and organization. Missing or malformed claims
// yield an empty role set and no organization.
func (r *ClaimsReader) Normalize(claims map[string]any) domain.NormalizedClaims {
	out := domain.NormalizedClaims{Roles: domain.NewRoleSet()}
	if claims == nil {
		return out
	}

	if raw, ok := claims[r.RolesClaim()]; ok && raw != nil {
		out.Roles = toRoleSet(raw)
	} else if meta, ok := claims["app_metadata"].(map[string]any); ok {
		out.Roles = toRoleSet(meta["roles"])
	}

	out.OrganizationID = stringClaim(claims, "org_id")
	return out
}

// Principal builds the full principal from raw claims.
func (r *ClaimsReader) Principal(claims map[string]any) domain.Principal {
	n := r.Normalize(claims)

	orgName := stringClaim(claims, r.namespace+"/org_name")
	if orgName == "" {
		orgName = stringClaim(claims, "org_name")
	}

	verified, _ := claims["email_verified"].(bool)
	return domain.Principal{
		SubjectID:        stringClaim(claims, "sub"),
		Email:            stringClaim(claims, "email"),
		DisplayName:      stringClaim(claims, "name"),
		OrganizationID:   n.OrganizationID,
		OrganizationName: orgName,
		Roles:            n.Roles,
		EmailVerified:    verified,
	}
}

func toRoleSet(raw any) domain.RoleSet {
	switch v := raw.(type) {
	case []string:
		return domain.NewRoleSet(v...)
	case []any:
		roles := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				roles = append(roles, strings.TrimSpace(s))
			}
		}
		return domain.NewRoleSet(roles...)
	case string:
		return domain.NewRoleSet(strings.TrimSpace(v))
	default:
		return domain.NewRoleSet()
	}
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return strings.TrimSpace(s)
}
