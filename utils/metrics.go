package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	orderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchme_order_transitions_total",
		Help: "Order status transitions by source and target status.",
	}, []string{"from", "to"})

	vendorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchme_vendor_requests_total",
		Help: "Outbound calls to the payment gateway and shipping aggregator.",
	}, []string{"vendor", "operation", "outcome"})

	webhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "watchme_webhook_deliveries_total",
		Help: "Inbound webhook deliveries by source and result.",
	}, []string{"source", "result"})
)

// RecordTransition counts an order status change
func RecordTransition(from, to string) {
	if from == to {
		return
	}
	orderTransitions.WithLabelValues(from, to).Inc()
}

// RecordVendorRequest counts an outbound vendor call
func RecordVendorRequest(vendor, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	vendorRequests.WithLabelValues(vendor, operation, outcome).Inc()
}

// RecordWebhook counts an inbound webhook delivery
func RecordWebhook(source, result string) {
	webhookDeliveries.WithLabelValues(source, result).Inc()
}
