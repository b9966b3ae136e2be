package notify

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitbook/internal/database"
	"fitbook/internal/refdate"
	"fitbook/internal/settings"
)

type recordingNotifier struct {
	calls []int
}

func (n *recordingNotifier) PeriodExpiry(_ context.Context, _ string, daysLeft int) error {
	n.calls = append(n.calls, daysLeft)
	return nil
}

func newWatcher(t *testing.T, endDate string) (*ExpiryWatcher, *recordingNotifier) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	dir := t.TempDir()

	store, err := settings.NewStore(dir, logger)
	require.NoError(t, err)

	cfg := settings.Default()
	if endDate != "" {
		cfg.ReservationPeriod = &settings.Period{
			StartDate: refdate.Today().AddDays(-30).String(),
			EndDate:   endDate,
		}
	}
	require.NoError(t, store.Save(cfg))

	db, err := database.NewDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	notifier := &recordingNotifier{}
	return NewExpiryWatcher(store, notifier, db, logger), notifier
}

func TestCheckNowThresholds(t *testing.T) {
	cases := []struct {
		name     string
		daysLeft int
		want     []int
	}{
		{"WeekBefore", 7, []int{7}},
		{"ThreeDays", 3, []int{3}},
		{"FinalDay", 0, []int{0}},
		{"FiveDaysIsQuiet", 5, nil},
		{"AlreadyExpired", -1, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			end := refdate.Today().AddDays(tc.daysLeft)
			watcher, notifier := newWatcher(t, end.String())

			watcher.CheckNow()
			assert.Equal(t, tc.want, notifier.calls)
		})
	}
}

func TestCheckNowDeduplicates(t *testing.T) {
	end := refdate.Today().AddDays(7)
	watcher, notifier := newWatcher(t, end.String())

	watcher.CheckNow()
	watcher.CheckNow()
	watcher.CheckNow()

	assert.Equal(t, []int{7}, notifier.calls)
}

func TestCheckNowWithoutPeriod(t *testing.T) {
	watcher, notifier := newWatcher(t, "")

	watcher.CheckNow()
	assert.Empty(t, notifier.calls)
}

func TestStartStop(t *testing.T) {
	end := refdate.Today().AddDays(7)
	watcher, notifier := newWatcher(t, end.String())

	watcher.Start()
	watcher.Start() // second call is a no-op
	watcher.Stop()
	watcher.Stop()

	// The startup check ran exactly once.
	assert.Equal(t, []int{7}, notifier.calls)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2026-03-14 (토요일)", formatDate("2026-03-14"))
	assert.Equal(t, "2026-03-16 (월요일)", formatDate("2026-03-16"))
	assert.Equal(t, "garbage", formatDate("garbage"))
}
