package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cheesecode",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cheesecode",
			Name:      "bookings_created_total",
			Help:      "Bookings created since start.",
		},
	)

	bookingsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cheesecode",
			Name:      "bookings_deleted_total",
			Help:      "Bookings deleted since start.",
		},
	)

	bookingRevenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cheesecode",
			Name:      "booking_revenue_total",
			Help:      "Summed total price of created bookings.",
		},
	)

	syncTasksProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cheesecode",
			Name:      "sync_tasks_processed_total",
			Help:      "Spreadsheet sync tasks by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsDeleted, bookingRevenue, syncTasksProcessed)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// BookingCreated records one created booking and its revenue.
func BookingCreated(totalPrice float64) {
	bookingsCreated.Inc()
	bookingRevenue.Add(totalPrice)
}

func BookingDeleted() {
	bookingsDeleted.Inc()
}

// SyncTaskProcessed records a sync task outcome ("completed", "retry", "failed").
func SyncTaskProcessed(outcome string) {
	syncTasksProcessed.WithLabelValues(outcome).Inc()
}
