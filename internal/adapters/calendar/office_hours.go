package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/officesim-go/internal/application/common"
	"github.com/andrescamacho/officesim-go/internal/infrastructure/config"
)

// OfficeHours answers where agents belong at a given instant from a weekly
// schedule: asleep overnight, in the office during opening hours on
// workdays, at home otherwise
type OfficeHours struct {
	loc        *time.Location
	open       time.Duration
	close      time.Duration
	sleepAt    time.Duration
	wakeAt     time.Duration
	workdays   map[time.Weekday]bool
	alwaysOpen bool
}

// New builds the oracle from configuration
func New(cfg config.BusinessHoursConfig) (*OfficeHours, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	h := &OfficeHours{loc: loc, workdays: make(map[time.Weekday]bool), alwaysOpen: cfg.AlwaysOpen}
	for _, f := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"open", cfg.Open, &h.open},
		{"close", cfg.Close, &h.close},
		{"sleep_at", cfg.SleepAt, &h.sleepAt},
		{"wake_at", cfg.WakeAt, &h.wakeAt},
	} {
		d, err := parseClock(f.value)
		if err != nil {
			return nil, fmt.Errorf("business_hours.%s: %w", f.name, err)
		}
		*f.dst = d
	}
	if h.close <= h.open {
		return nil, fmt.Errorf("business_hours.close must be after open")
	}

	for _, day := range cfg.Workdays {
		wd, ok := weekdays[strings.ToLower(day)]
		if !ok {
			return nil, fmt.Errorf("unknown workday %q", day)
		}
		h.workdays[wd] = true
	}
	return h, nil
}

// AlwaysOpen is an oracle that keeps everyone in the office
func AlwaysOpen() *OfficeHours {
	return &OfficeHours{loc: time.UTC, alwaysOpen: true}
}

// PresenceAt implements common.BusinessHours
func (h *OfficeHours) PresenceAt(t time.Time) common.Presence {
	if h.alwaysOpen {
		return common.PresenceOffice
	}
	local := t.In(h.loc)
	m := sinceMidnight(local)

	if h.asleep(m) {
		return common.PresenceAsleep
	}
	if h.workdays[local.Weekday()] && m >= h.open && m < h.close {
		return common.PresenceOffice
	}
	return common.PresenceHome
}

// asleep handles a sleep window that wraps past midnight
func (h *OfficeHours) asleep(m time.Duration) bool {
	if h.sleepAt == h.wakeAt {
		return false
	}
	if h.sleepAt < h.wakeAt {
		return m >= h.sleepAt && m < h.wakeAt
	}
	return m >= h.sleepAt || m < h.wakeAt
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}
