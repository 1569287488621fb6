package survey

import (
	"time"

	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

// ResolveStatus computes the lifecycle status of a survey created with the
// requested status over [start, end] as seen at now. Day boundaries are taken
// in now's location. Only an active request can yield anything but draft.
func ResolveStatus(requested model.Status, start, end model.Date, now time.Time) model.Status {
	if requested != model.StatusActive {
		return model.StatusDraft
	}

	loc := now.Location()
	switch {
	case now.After(end.EndOfDay(loc)):
		return model.StatusCompleted
	case now.Before(start.StartOfDay(loc)):
		return model.StatusDraft
	default:
		return model.StatusActive
	}
}
