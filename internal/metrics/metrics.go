package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationRescheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "reservation_rescheduled_total",
			Help:      "Count of reservations rescheduled.",
		},
	)

	reservationConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "reservation_conflict_total",
			Help:      "Count of bookings rejected because the slot was taken.",
		},
	)

	settingsSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "settings_save_total",
			Help:      "Count of settings save attempts by outcome.",
		},
		[]string{"outcome"},
	)

	notifyFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "notify_failure_total",
			Help:      "Count of failed outbound notifications.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fitbook",
			Name:      "http_requests_total",
			Help:      "Count of API requests by handler.",
		},
		[]string{"handler"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationCreated,
			reservationRescheduled,
			reservationConflict,
			settingsSaved,
			notifyFailures,
			httpRequests,
		)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationRescheduled() {
	reservationRescheduled.Inc()
}

func IncReservationConflict() {
	reservationConflict.Inc()
}

func IncSettingsSave(outcome string) {
	settingsSaved.WithLabelValues(outcome).Inc()
}

func IncNotifyFailure() {
	notifyFailures.Inc()
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}
