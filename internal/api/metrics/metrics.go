// Package metrics defines and registers all custom Prometheus metrics for the
// RetailZero brand gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "retailzero"

// ── Access metrics ────────────────────────────────────────────────────────────

// AccessDecisionsTotal counts access decisions.
// Labels:
//   - resource: "public", "customer-area", "employee-area" or "admin-area"
//   - allowed:  "true" or "false"
//   - reason:   denial reason, empty when allowed
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total number of access decisions, by resource and outcome.",
	},
	[]string{"resource", "allowed", "reason"},
)

// ── Redirect metrics ──────────────────────────────────────────────────────────

// RedirectsTotal counts post-login redirect decisions.
// Labels:
//   - kind:     "admin", "employee", "brand" or "brand_selection"
//   - navigate: "true" when a navigation was issued, "false" when already on target
var RedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redirects_total",
		Help:      "Total number of post-login redirect decisions.",
	},
	[]string{"kind", "navigate"},
)

// RedirectLatchErrorsTotal counts latch store failures; the request proceeds
// without a redirect when they happen.
var RedirectLatchErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "redirect_latch_errors_total",
		Help:      "Total number of redirect latch store errors.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionResolutionsTotal counts session resolutions by resulting status
// ("authenticated", "anonymous", "loading").
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of identity session resolutions, by status.",
	},
	[]string{"status"},
)

// TokenRefreshDuration measures silent token refreshes against the identity provider.
// Label:
//   - result: "ok" or "error"
var TokenRefreshDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "token_refresh_duration_seconds",
		Help:      "Duration of silent token refreshes.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Provisioning metrics ──────────────────────────────────────────────────────

// ProvisioningItemsTotal counts provisioning items.
// Labels:
//   - kind:    "organization", "role", "user"
//   - outcome: "created", "exists", "updated", "failed"
var ProvisioningItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provisioning_items_total",
		Help:      "Total number of provisioned items, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)
