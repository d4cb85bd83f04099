package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hazem_opel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	pollTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hazem_opel",
			Name:      "poll_ticks_total",
			Help:      "Completed change-detection poll cycles.",
		},
	)

	newBookingsDetected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hazem_opel",
			Name:      "new_bookings_detected_total",
			Help:      "Bookings first observed by the poller.",
		},
	)

	notifyDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hazem_opel",
			Name:      "notify_deliveries_total",
			Help:      "Telegram notification deliveries by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, pollTicks, newBookingsDetected, notifyDeliveries)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncPollTick records one completed poll cycle.
func IncPollTick() {
	pollTicks.Inc()
}

// AddNewBookings records bookings first seen by the poller.
func AddNewBookings(n int) {
	newBookingsDetected.Add(float64(n))
}

// IncNotify records a notification delivery outcome ("sent" or "failed").
func IncNotify(outcome string) {
	notifyDeliveries.WithLabelValues(outcome).Inc()
}
