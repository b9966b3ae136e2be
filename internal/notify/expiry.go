package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"fitbook/internal/metrics"
	"fitbook/internal/refdate"
	"fitbook/internal/settings"
)

// PeriodNotifier delivers a reservation-period expiry warning.
type PeriodNotifier interface {
	PeriodExpiry(ctx context.Context, endDate string, daysLeft int) error
}

// SentLog deduplicates expiry notices across restarts.
type SentLog interface {
	WasSent(ctx context.Context, periodEnd, threshold string) (bool, error)
	MarkSent(ctx context.Context, periodEnd, threshold string) error
}

// ExpiryWatcher checks the reservation period once a day and warns the
// trainer when it is about to run out: a week before, during the last
// three days, and on the final day.
type ExpiryWatcher struct {
	store    *settings.Store
	notifier PeriodNotifier
	sent     SentLog
	logger   zerolog.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewExpiryWatcher creates the watcher.
func NewExpiryWatcher(store *settings.Store, notifier PeriodNotifier, sent SentLog, logger zerolog.Logger) *ExpiryWatcher {
	return &ExpiryWatcher{
		store:    store,
		notifier: notifier,
		sent:     sent,
		logger:   logger.With().Str("component", "expiry").Logger(),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the daily check loop.
func (w *ExpiryWatcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop()

	w.logger.Info().Msg("expiry watcher started")
}

// Stop gracefully stops the watcher.
func (w *ExpiryWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	w.wg.Wait()

	w.logger.Info().Msg("expiry watcher stopped")
}

func (w *ExpiryWatcher) loop() {
	defer w.wg.Done()

	w.CheckNow()

	// Check at 09:00 business time each day.
	timer := time.NewTimer(timeUntilNextHour(9))
	defer timer.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-timer.C:
			w.CheckNow()
			timer.Reset(timeUntilNextHour(9))
		}
	}
}

// CheckNow runs one expiry check immediately.
func (w *ExpiryWatcher) CheckNow() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg, err := w.store.Load()
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to load settings for expiry check")
		return
	}
	if !cfg.ReservationPeriod.IsSet() {
		return
	}

	end, err := refdate.Parse(cfg.ReservationPeriod.EndDate)
	if err != nil {
		w.logger.Error().Err(err).Msg("invalid reservation period end date")
		return
	}

	daysLeft := refdate.Today().DaysUntil(end)
	if daysLeft != 7 && (daysLeft < 0 || daysLeft > 3) {
		return
	}

	threshold := fmt.Sprintf("d-%d", daysLeft)
	already, err := w.sent.WasSent(ctx, end.String(), threshold)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to query notification log")
		return
	}
	if already {
		return
	}

	if err := w.notifier.PeriodExpiry(ctx, end.String(), daysLeft); err != nil {
		metrics.IncNotifyFailure()
		w.logger.Error().Err(err).Int("days_left", daysLeft).Msg("failed to send expiry notice")
		return
	}

	if err := w.sent.MarkSent(ctx, end.String(), threshold); err != nil {
		w.logger.Error().Err(err).Msg("failed to record sent notice")
	}

	w.logger.Info().Int("days_left", daysLeft).Str("end_date", end.String()).Msg("expiry notice sent")
}

func timeUntilNextHour(hour int) time.Duration {
	now := time.Now().In(refdate.Location)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, refdate.Location)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
