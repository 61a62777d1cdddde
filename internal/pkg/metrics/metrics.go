// Package metrics defines and registers the custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels
// and help strings. Every collector is registered with the default registry
// through promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Checkout metrics ──────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders persisted after a successful capture.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created by checkout.",
	},
)

// CheckoutFailuresTotal counts checkouts that did not produce an order.
// Label:
//   - reason: "empty_cart", "in_progress", "declined", "uncertain", "post_charge", "error"
var CheckoutFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_failures_total",
		Help:      "Total number of failed checkouts, by reason.",
	},
	[]string{"reason"},
)

// PaymentCaptureDuration measures the round trip to the payment gateway.
// Label:
//   - outcome: "captured", "declined" or "uncertain"
var PaymentCaptureDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "payment_capture_duration_seconds",
		Help:      "Duration of payment capture calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Security metrics ──────────────────────────────────────────────────────────

// SecurityEventsTotal counts denied or suspicious requests.
// Label:
//   - action: e.g. "invalid_session", "access_denied", "cart_ownership_mismatch"
var SecurityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "security_events_total",
		Help:      "Total number of security-relevant denials, by action.",
	},
	[]string{"action"},
)

// ResetTokensIssuedTotal counts password reset tokens handed out.
var ResetTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_issued_total",
		Help:      "Total number of password reset tokens issued.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailQueueDepth tracks pending mail in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailSentTotal counts delivery attempts.
// Label:
//   - result: "sent", "failed" or "dropped"
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of outbound emails, by delivery result.",
	},
	[]string{"result"},
)
