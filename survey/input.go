package survey

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

// CreateSurveyRequest is the survey form as submitted by a client.
type CreateSurveyRequest struct {
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	TriggerWord       string          `json:"trigger_word"`
	InvitationMessage string          `json:"invitation_message"`
	CompletionMessage *string         `json:"completion_message"`
	ScheduledTime     string          `json:"scheduled_time"`
	Status            model.Status    `json:"status"`
	Questions         []QuestionInput `json:"questions"`
	Recipients        []int64         `json:"recipients"`
}

type QuestionInput struct {
	Question            string             `json:"question"`
	ResponseType        model.ResponseType `json:"response_type"`
	FreeTextDescription *string            `json:"free_text_description"`
	AllowMultiple       bool               `json:"allow_multiple"`
	Options             []string           `json:"options"`
	Branching           Branching          `json:"branching"`
	OptionBranching     OptionBranching    `json:"option_branching"`
}

// CreateSurvey is a validated survey creation request.
type CreateSurvey struct {
	Name              string
	Description       string
	StartDate         model.Date
	EndDate           model.Date
	TriggerWord       string
	InvitationMessage string
	CompletionMessage *string
	ScheduledTime     time.Time
	Status            model.Status
	Questions         []QuestionInput
	Recipients        []int64
}

// ContactChecker reports which of the given contacts belong to a user.
type ContactChecker interface {
	OwnedContacts(ctx context.Context, ownerID int64, ids []int64) (map[int64]bool, error)
}

// ValidationError maps request fields to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid survey: " + strings.Join(parts, "; ")
}

var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseSchedule(s string, loc *time.Location) (t time.Time, err error) {
	for _, layout := range scheduleLayouts {
		t, err = time.ParseInLocation(layout, s, loc)
		if err == nil {
			return
		}
	}
	return
}

// Validate checks the request and converts it into a CreateSurvey. Times
// without an explicit offset are read in loc. Recipients must all be owned
// by ownerID.
func (r CreateSurveyRequest) Validate(ctx context.Context, contacts ContactChecker, ownerID int64, loc *time.Location) (CreateSurvey, error) {
	fields := map[string]string{}
	in := CreateSurvey{
		Name:              strings.TrimSpace(r.Name),
		Description:       r.Description,
		TriggerWord:       strings.TrimSpace(r.TriggerWord),
		InvitationMessage: strings.TrimSpace(r.InvitationMessage),
		CompletionMessage: r.CompletionMessage,
		Status:            r.Status,
		Questions:         r.Questions,
		Recipients:        r.Recipients,
	}

	if in.Name == "" {
		fields["name"] = "required"
	}
	if in.TriggerWord == "" {
		fields["trigger_word"] = "required"
	}
	if in.InvitationMessage == "" {
		fields["invitation_message"] = "required"
	}

	var err error
	if in.StartDate, err = model.ParseDate(r.StartDate); err != nil {
		fields["start_date"] = "must be a date (YYYY-MM-DD)"
	}
	if in.EndDate, err = model.ParseDate(r.EndDate); err != nil {
		fields["end_date"] = "must be a date (YYYY-MM-DD)"
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		fields["end_date"] = "must not be before start_date"
	}
	if in.ScheduledTime, err = parseSchedule(r.ScheduledTime, loc); err != nil {
		fields["scheduled_time"] = "must be a date and time"
	}

	switch in.Status {
	case "":
		in.Status = model.StatusDraft
	case model.StatusDraft, model.StatusActive:
	default:
		fields["status"] = "must be draft or active"
	}

	if len(in.Questions) == 0 {
		fields["questions"] = "at least one question is required"
	}
	for i, q := range in.Questions {
		key := fmt.Sprintf("questions.%d", i)
		if strings.TrimSpace(q.Question) == "" {
			fields[key+".question"] = "required"
		}
		switch q.ResponseType {
		case model.FreeText:
		case model.MultipleChoice:
			if !hasOption(q.Options) {
				fields[key+".options"] = "at least one option is required"
			}
		default:
			fields[key+".response_type"] = "must be free-text or multiple-choice"
		}
	}

	if len(in.Recipients) > 0 {
		owned, err := contacts.OwnedContacts(ctx, ownerID, in.Recipients)
		if err != nil {
			return CreateSurvey{}, err
		}
		for _, id := range in.Recipients {
			if !owned[id] {
				fields["recipients"] = fmt.Sprintf("contact %d not found", id)
				break
			}
		}
	}

	if len(fields) > 0 {
		return CreateSurvey{}, &ValidationError{fields}
	}
	return in, nil
}

func hasOption(options []string) bool {
	for _, o := range options {
		if strings.TrimSpace(o) != "" {
			return true
		}
	}
	return false
}
