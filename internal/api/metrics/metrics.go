// Package metrics defines the custom Prometheus metrics of the e-commerce
// API. Metrics register with the default registry on package init through
// promauto and are exposed on /metrics next to the echoprometheus HTTP
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecommerce"

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts successful sign-ups, admin creations included.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created.",
	},
)

// RolePromotionsTotal counts guest to user promotions.
// Label:
//   - trigger: the flow that ran the check ("login", "current", "update")
var RolePromotionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_promotions_total",
		Help:      "Total number of guest accounts promoted to user, by trigger.",
	},
	[]string{"trigger"},
)

// AuthzDenialsTotal counts requests rejected by the authorization layer.
// Label:
//   - kind: "unauthorized", "forbidden", "incomplete_profile" or "not_found"
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by authentication or authorization checks.",
	},
	[]string{"kind"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders produced by a successful checkout.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created through checkout.",
	},
)

// CheckoutFailuresTotal counts rejected checkouts.
// Label:
//   - reason: "empty_cart", "stock", "not_found" or "error"
var CheckoutFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_failures_total",
		Help:      "Total number of checkouts that did not produce an order.",
	},
	[]string{"reason"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Labels:
//   - kind: notification kind (e.g. "order_placed")
//   - result: "sent", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications by kind and delivery result.",
	},
	[]string{"kind", "result"},
)

// NotificationQueueDepth tracks pending notifications per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
