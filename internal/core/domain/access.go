package domain

// Resource is the kind of area a request wants to reach.
type Resource string

const (
	ResourcePublic       Resource = "public"
	ResourceCustomerArea Resource = "customer-area"
	ResourceEmployeeArea Resource = "employee-area"
	ResourceAdminArea    Resource = "admin-area"
)

// Denial reasons.
const (
	ReasonAdminOnly         = "admin-only"
	ReasonEmployeeOnly      = "employee-only"
	ReasonWrongOrganization = "wrong-organization"
	ReasonNoRole            = "no-role"
	ReasonCustomerOnly      = "customer-only"
	ReasonUnknownResource   = "unknown-resource"
)

// Views rendered for a decision.
const (
	ViewPublic            = "public"
	ViewAdminPortal       = "admin-portal"
	ViewEmployeePortal    = "employee-portal"
	ViewCustomerDashboard = "customer-dashboard"
	ViewStaffBrandView    = "staff-brand-view"
	ViewAccessDenied      = "access-denied"
	ViewLoading           = "loading"
	ViewBrandSelection    = "brand-selection"
)

// AccessDecision is recomputed on every navigation and never stored.
type AccessDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	View    string `json:"view"`
}

func Allow(view string) AccessDecision {
	return AccessDecision{Allowed: true, View: view}
}

func Deny(reason string) AccessDecision {
	return AccessDecision{Allowed: false, Reason: reason, View: ViewAccessDenied}
}

// AccessPolicy holds the product decisions the rule table leaves open.
type AccessPolicy struct {
	// ZeroRoleCustomerAccess lets a principal without any role into the
	// customer area of its own brand.
	ZeroRoleCustomerAccess bool
	// StaffCustomerAreaAccess lets admins and employees browse a brand's
	// customer area without holding the customer role.
	StaffCustomerAreaAccess bool
}

func DefaultAccessPolicy() AccessPolicy {
	return AccessPolicy{ZeroRoleCustomerAccess: true, StaffCustomerAreaAccess: true}
}
