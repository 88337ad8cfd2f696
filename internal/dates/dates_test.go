package dates

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeSameYear(t *testing.T) {
	now := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)

	got, err := Normalize("Mar 16, 06:11", now, time.UTC)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	want := time.Date(2025, time.March, 16, 6, 11, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeYearRollback(t *testing.T) {
	// Naive same-year parse would be in the future, so the stamp must be
	// from December of the previous year.
	now := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

	got, err := Normalize("Dec 31, 23:00", now, time.UTC)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	want := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeISO(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, loc)

	got, err := Normalize("2025-06-10T08:30:00+05:00", now, loc)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	want := time.Date(2025, time.June, 10, 3, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got.Location() != loc {
		t.Fatalf("expected result in %v, got %v", loc, got.Location())
	}
}

func TestNormalizeUnparseable(t *testing.T) {
	now := time.Date(2025, time.March, 17, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"", "yesterday-ish", "??:??"} {
		if _, err := Normalize(raw, now, time.UTC); !errors.Is(err, ErrUnparseable) {
			t.Errorf("Normalize(%q): expected ErrUnparseable, got %v", raw, err)
		}
	}
}

func TestFreshWindow(t *testing.T) {
	now := time.Date(2025, time.March, 17, 12, 0, 0, 0, time.UTC)

	inside := now.Add(-23 * time.Hour)
	outside := now.Add(-25 * time.Hour)

	if !Fresh(inside, now, PolicyWindow, 24*time.Hour) {
		t.Errorf("item %v inside the window was rejected", inside)
	}
	if Fresh(outside, now, PolicyWindow, 24*time.Hour) {
		t.Errorf("item %v outside the window was accepted", outside)
	}
}

func TestFreshCalendarDay(t *testing.T) {
	now := time.Date(2025, time.March, 17, 1, 0, 0, 0, time.UTC)

	sameDay := time.Date(2025, time.March, 17, 23, 30, 0, 0, time.UTC)
	dayBefore := time.Date(2025, time.March, 16, 23, 30, 0, 0, time.UTC)

	if !Fresh(sameDay, now, PolicyCalendarDay, 0) {
		t.Errorf("same-day item was rejected")
	}
	if Fresh(dayBefore, now, PolicyCalendarDay, 0) {
		t.Errorf("previous-day item was accepted")
	}
}
