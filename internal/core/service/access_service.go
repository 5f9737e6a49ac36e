package service

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/retailzero/brand-gateway/internal/api/metrics"
	"github.com/retailzero/brand-gateway/internal/core/domain"
)

// AccessService decides whether a principal may reach a resource of a brand.
// It is a pure function over in-memory data.
type AccessService struct {
	policy domain.AccessPolicy
	log    zerolog.Logger
}

func NewAccessService(policy domain.AccessPolicy, log zerolog.Logger) *AccessService {
	return &AccessService{policy: policy, log: log}
}

// Decide applies the rule table; the first matching rule wins. A denial is a
// regular value for the view layer to render.
func (s *AccessService) Decide(p domain.Principal, brand *domain.Brand, resource domain.Resource) domain.AccessDecision {
	d := s.decide(p, brand, resource)
	metrics.AccessDecisionsTotal.
		WithLabelValues(string(resource), strconv.FormatBool(d.Allowed), d.Reason).
		Inc()
	if !d.Allowed {
		ev := s.log.Debug().
			Str("sub", p.SubjectID).
			Str("resource", string(resource)).
			Str("reason", d.Reason)
		if brand != nil {
			ev = ev.Str("brand", brand.ID)
		}
		ev.Msg("access denied")
	}
	return d
}

func (s *AccessService) decide(p domain.Principal, brand *domain.Brand, resource domain.Resource) domain.AccessDecision {
	roles := p.Roles
	isAdmin := roles.Has(domain.RoleAdmin)
	isEmployee := roles.Has(domain.RoleEmployee)

	switch resource {
	case domain.ResourcePublic:
		return domain.Allow(domain.ViewPublic)
	case domain.ResourceAdminArea:
		if isAdmin {
			return domain.Allow(domain.ViewAdminPortal)
		}
		return domain.Deny(domain.ReasonAdminOnly)
	case domain.ResourceEmployeeArea:
		if isEmployee || isAdmin {
			return domain.Allow(domain.ViewEmployeePortal)
		}
		return domain.Deny(domain.ReasonEmployeeOnly)
	}

	// Organization match is checked before the customer-area role rule.
	if !p.HasGlobalAccess() && (brand == nil || p.OrganizationID != brand.OrganizationID) {
		return domain.Deny(domain.ReasonWrongOrganization)
	}

	if resource != domain.ResourceCustomerArea {
		return domain.Deny(domain.ReasonUnknownResource)
	}

	switch {
	case roles.Has(domain.RoleCustomer):
		return domain.Allow(domain.ViewCustomerDashboard)
	case roles.Empty():
		if s.policy.ZeroRoleCustomerAccess {
			return domain.Allow(domain.ViewCustomerDashboard)
		}
		return domain.Deny(domain.ReasonNoRole)
	case !isEmployee && !isAdmin:
		return domain.Allow(domain.ViewCustomerDashboard)
	case s.policy.StaffCustomerAreaAccess:
		return domain.Allow(domain.ViewStaffBrandView)
	default:
		return domain.Deny(domain.ReasonCustomerOnly)
	}
}
