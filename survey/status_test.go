package survey

import (
	"testing"
	"time"

	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

func TestResolveStatus(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	start := model.NewDate(2025, time.March, 10)
	end := model.NewDate(2025, time.March, 20)

	cases := []struct {
		name      string
		requested model.Status
		now       time.Time
		want      model.Status
	}{
		{"draft inside window", model.StatusDraft, time.Date(2025, time.March, 15, 12, 0, 0, 0, loc), model.StatusDraft},
		{"draft after window", model.StatusDraft, time.Date(2025, time.April, 1, 0, 0, 0, 0, loc), model.StatusDraft},
		{"empty request", "", time.Date(2025, time.March, 15, 12, 0, 0, 0, loc), model.StatusDraft},
		{"active at start of first day", model.StatusActive, time.Date(2025, time.March, 10, 0, 0, 0, 0, loc), model.StatusActive},
		{"active inside window", model.StatusActive, time.Date(2025, time.March, 15, 9, 30, 0, 0, loc), model.StatusActive},
		{"active at last instant", model.StatusActive, end.EndOfDay(loc), model.StatusActive},
		{"active just after window", model.StatusActive, end.EndOfDay(loc).Add(time.Nanosecond), model.StatusCompleted},
		{"active long after window", model.StatusActive, time.Date(2026, time.January, 1, 0, 0, 0, 0, loc), model.StatusCompleted},
		{"active just before window", model.StatusActive, start.StartOfDay(loc).Add(-time.Nanosecond), model.StatusDraft},
		{"active future dated", model.StatusActive, time.Date(2025, time.February, 1, 0, 0, 0, 0, loc), model.StatusDraft},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveStatus(tc.requested, start, end, tc.now)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestResolveStatusSingleDayWindow(t *testing.T) {
	day := model.NewDate(2025, time.June, 1)
	noon := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	if got := ResolveStatus(model.StatusActive, day, day, noon); got != model.StatusActive {
		t.Fatalf("expected active, got %s", got)
	}
}

func TestResolveStatusUsesNowLocation(t *testing.T) {
	day := model.NewDate(2025, time.June, 1)
	// 22:00 UTC on June 1 is already June 2 in Nairobi
	now := time.Date(2025, time.June, 1, 22, 0, 0, 0, time.UTC)

	if got := ResolveStatus(model.StatusActive, day, day, now); got != model.StatusActive {
		t.Fatalf("expected active in UTC, got %s", got)
	}
	nairobi := time.FixedZone("EAT", 3*60*60)
	if got := ResolveStatus(model.StatusActive, day, day, now.In(nairobi)); got != model.StatusCompleted {
		t.Fatalf("expected completed in EAT, got %s", got)
	}
}
