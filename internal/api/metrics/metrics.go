// Package metrics defines and registers the custom Prometheus metrics of the
// niknax companion service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on import (promauto); the
// HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "niknax"

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeError          = "error"
)

// ── CRM client metrics ────────────────────────────────────────────────────────

// RemoteCallsTotal counts calls made to the CRM server.
// Labels:
//   - operation: client operation (e.g. "query", "create", "metadata.read")
//   - outcome: "success", "http_error" or "transport_error"
var RemoteCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_calls_total",
		Help:      "Total number of calls made to the CRM server.",
	},
	[]string{"operation", "outcome"},
)

// RemoteCallDuration measures CRM call latency, transport failures included.
var RemoteCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Duration of calls made to the CRM server.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// MetadataBatchesTotal counts readMetadata SOAP batches (at most 10 names each).
var MetadataBatchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metadata_batches_total",
		Help:      "Total number of readMetadata batches sent.",
	},
)

// ── Clone metrics ─────────────────────────────────────────────────────────────

// UsersClonedTotal counts users created by the clone flow.
var UsersClonedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_cloned_total",
		Help:      "Total number of users created by cloning.",
	},
)

// UsersCreatedTotal counts users created from the quick create form.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created from scratch.",
	},
)

// MembershipChangesTotal counts group memberships added or removed by hand.
// Labels:
//   - action: "add" or "remove"
//   - outcome: "success" or "error"
var MembershipChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "membership_changes_total",
		Help:      "Total number of public group and queue memberships edited.",
	},
	[]string{"action", "outcome"},
)

// CloneItemsTotal counts replicated assignments and memberships.
// Labels:
//   - type: "Permission Set License", "Permission Set", "Public Group", "Queue", "Password Reset"
//   - outcome: "success" or "error"
var CloneItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clone_items_total",
		Help:      "Total number of permission set assignments and group memberships replicated.",
	},
	[]string{"type", "outcome"},
)

// ── Coordinator metrics ───────────────────────────────────────────────────────

// LaunchesTotal counts popup launches by page.
var LaunchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "launches_total",
		Help:      "Total number of popup windows launched, by page.",
	},
	[]string{"page"},
)
