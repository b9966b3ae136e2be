package settings

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitbook/internal/apperr"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, zerolog.New(io.Discard))
	require.NoError(t, err)
	return store, dir
}

func validSettings() *Settings {
	cfg := Default()
	cfg.ReservationPeriod = &Period{StartDate: "2026-03-01", EndDate: "2026-03-31"}
	return cfg
}

func TestLoadSeedsDefaults(t *testing.T) {
	store, dir := newTestStore(t)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.AvailableHours.Weekday.Start)
	assert.Equal(t, 22, cfg.AvailableHours.Weekday.End)
	assert.Equal(t, 10, cfg.AvailableHours.Weekend.Start)
	assert.Equal(t, 17, cfg.AvailableHours.Weekend.End)
	assert.Equal(t, 10, cfg.AvailableHours.Holiday.Start)
	assert.Equal(t, 17, cfg.AvailableHours.Holiday.End)
	assert.True(t, cfg.AvailableHours.SameDay.Enabled)
	assert.Equal(t, 2, cfg.AvailableHours.SameDay.MinHoursAfter)
	assert.False(t, cfg.ReservationPeriod.IsSet())

	// The seeded document is persisted, not just returned.
	_, err = os.Stat(filepath.Join(dir, settingsFile))
	assert.NoError(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	cfg := validSettings()
	cfg.DisabledDates = []string{"2026-03-15"}
	cfg.Holidays = []string{"2026-03-14"}
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.DisabledDates, loaded.DisabledDates)
	assert.Equal(t, cfg.Holidays, loaded.Holidays)
	assert.Equal(t, cfg.ReservationPeriod, loaded.ReservationPeriod)
}

func TestSaveRejectsInvertedHours(t *testing.T) {
	store, _ := newTestStore(t)

	good := validSettings()
	require.NoError(t, store.Save(good))

	bad := validSettings()
	bad.AvailableHours.Weekday = HourRange{Start: 20, End: 10}
	err := store.Save(bad)
	assert.True(t, apperr.IsValidation(err))

	// The previously persisted document is unchanged and readable.
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 14, loaded.AvailableHours.Weekday.Start)
	assert.Equal(t, 22, loaded.AvailableHours.Weekday.End)
}

func TestSaveValidation(t *testing.T) {
	store, _ := newTestStore(t)

	t.Run("HourOutOfRange", func(t *testing.T) {
		cfg := validSettings()
		cfg.AvailableHours.Holiday.End = 24
		assert.True(t, apperr.IsValidation(store.Save(cfg)))
	})

	t.Run("BadDisabledDate", func(t *testing.T) {
		cfg := validSettings()
		cfg.DisabledDates = []string{"tomorrow"}
		assert.True(t, apperr.IsValidation(store.Save(cfg)))
	})

	t.Run("BadHoliday", func(t *testing.T) {
		cfg := validSettings()
		cfg.Holidays = []string{"2026-13-40"}
		assert.True(t, apperr.IsValidation(store.Save(cfg)))
	})

	t.Run("InvertedPeriod", func(t *testing.T) {
		cfg := validSettings()
		cfg.ReservationPeriod = &Period{StartDate: "2026-03-31", EndDate: "2026-03-01"}
		assert.True(t, apperr.IsValidation(store.Save(cfg)))
	})

	t.Run("SameDayMinHours", func(t *testing.T) {
		cfg := validSettings()
		cfg.AvailableHours.SameDay.MinHoursAfter = 7
		assert.True(t, apperr.IsValidation(store.Save(cfg)))
	})

	t.Run("NilDateSets", func(t *testing.T) {
		cfg := validSettings()
		cfg.DisabledDates = nil
		assert.True(t, apperr.IsValidation(store.Save(cfg)))
	})
}

func TestSaveBusyWhenLockHeld(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, lockFile), []byte("1"), 0o644))

	err := store.Save(validSettings())
	assert.ErrorIs(t, err, apperr.ErrBusy)
}

func TestLockReleasedAfterSave(t *testing.T) {
	store, _ := newTestStore(t)

	// Success path releases the lock.
	require.NoError(t, store.Save(validSettings()))
	require.NoError(t, store.Save(validSettings()))

	// A failed validation never takes the lock; an I/O style failure is
	// covered by the stale-lock clearing test below.
	bad := validSettings()
	bad.AvailableHours.Weekday = HourRange{Start: 23, End: 1}
	assert.True(t, apperr.IsValidation(store.Save(bad)))
	assert.NoError(t, store.Save(validSettings()))
}

func TestNewStoreClearsStaleLock(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, lockFile), []byte("1"), 0o644))

	store, err := NewStore(dir, zerolog.New(io.Discard))
	require.NoError(t, err)

	assert.NoError(t, store.Save(validSettings()))
}

func TestSaveWritesBackup(t *testing.T) {
	store, dir := newTestStore(t)

	first := validSettings()
	require.NoError(t, store.Save(first))

	second := validSettings()
	second.Holidays = []string{"2026-03-14"}
	require.NoError(t, store.Save(second))

	data, err := os.ReadFile(filepath.Join(dir, backupFile))
	require.NoError(t, err)

	var backup Settings
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Empty(t, backup.Holidays)
}

func TestCorruptFileReseeds(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFile), []byte("{broken"), 0o644))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.AvailableHours.Weekday.Start)
}
