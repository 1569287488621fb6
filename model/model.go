package model

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	// Display-only values, never produced by status resolution.
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

type ResponseType string

const (
	FreeText       ResponseType = "free-text"
	MultipleChoice ResponseType = "multiple-choice"
)

type Survey struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	StartDate         Date       `json:"start_date"`
	EndDate           Date       `json:"end_date"`
	TriggerWord       string     `json:"trigger_word"`
	CompletionMessage *string    `json:"completion_message"`
	InvitationMessage string     `json:"invitation_message"`
	ScheduledTime     time.Time  `json:"scheduled_time"`
	Status            Status     `json:"status"`
	CreatedBy         int64      `json:"created_by"`
	CreatedAt         time.Time  `json:"created_at"`
	Questions         []Question `json:"questions,omitempty"`
	RecipientCount    int        `json:"recipient_count"`
}

type Question struct {
	ID                  int64           `json:"id"`
	SurveyID            int64           `json:"survey_id"`
	Question            string          `json:"question"`
	ResponseType        ResponseType    `json:"response_type"`
	FreeTextDescription *string         `json:"free_text_description"`
	AllowMultiple       bool            `json:"allow_multiple"`
	Order               int             `json:"order"`
	Branching           json.RawMessage `json:"branching"`
	Options             []Option        `json:"options,omitempty"`
}

type Option struct {
	ID         int64           `json:"id"`
	QuestionID int64           `json:"question_id"`
	Option     string          `json:"option"`
	Order      int             `json:"order"`
	Branching  json.RawMessage `json:"branching"`
}

// Recipient links a survey to a contact. SentAt is nil until the
// invitation is considered dispatched.
type Recipient struct {
	SurveyID  int64      `json:"survey_id"`
	ContactID int64      `json:"contact_id"`
	SentAt    *time.Time `json:"sent_at"`
}

type Contact struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

// SurveySummary is the listing view of a survey.
type SurveySummary struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Status         Status    `json:"status"`
	QuestionCount  int       `json:"question_count"`
	RecipientCount int       `json:"recipient_count"`
	CreatedAt      time.Time `json:"created_at"`
}
