package survey

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

// recipients are inserted in chunks to stay under SQLite's variable limit
const recipientBatchSize = 300

// Creator persists new surveys together with their questions, options and
// recipient links.
type Creator struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewCreator(db *sql.DB, loc *time.Location) *Creator {
	return &Creator{
		DB:  db,
		Now: func() time.Time { return time.Now().In(loc) },
	}
}

// Create writes the whole survey aggregate in one transaction. Nothing is
// persisted if any insert fails. The returned survey carries the resolved
// status, which may differ from the requested one.
func (c *Creator) Create(ctx context.Context, in CreateSurvey, ownerID int64) (model.Survey, error) {
	requested := in.Status
	if requested == "" {
		requested = model.StatusDraft
	}
	now := c.Now()

	s := model.Survey{
		Name:              in.Name,
		Description:       in.Description,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		TriggerWord:       in.TriggerWord,
		CompletionMessage: in.CompletionMessage,
		InvitationMessage: in.InvitationMessage,
		ScheduledTime:     in.ScheduledTime,
		Status:            ResolveStatus(requested, in.StartDate, in.EndDate, now),
		CreatedBy:         ownerID,
		CreatedAt:         now,
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO survey (
			name, description, start_date, end_date, trigger_word,
			completion_message, invitation_message, scheduled_time,
			status, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		s.Name, s.Description, s.StartDate, s.EndDate, s.TriggerWord,
		s.CompletionMessage, s.InvitationMessage, s.ScheduledTime,
		s.Status, s.CreatedBy, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "insert survey")
	}

	s.Questions, err = insertQuestions(ctx, tx, s.ID, in.Questions)
	if err != nil {
		return model.Survey{}, err
	}

	var sentAt *time.Time
	if requested == model.StatusActive {
		sentAt = &in.ScheduledTime
	}
	contactIDs := distinct(in.Recipients)
	if err = attachRecipients(ctx, tx, s.ID, contactIDs, sentAt); err != nil {
		return model.Survey{}, err
	}
	s.RecipientCount = len(contactIDs)

	if err = tx.Commit(); err != nil {
		return model.Survey{}, errors.Wrap(err, "commit")
	}
	return s, nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, surveyID int64, inputs []QuestionInput) ([]model.Question, error) {
	questionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question (
			survey_id, question, response_type, free_text_description,
			allow_multiple, position, branching
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare question insert")
	}
	defer questionStmt.Close()

	optionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question_option (question_id, option, position, branching)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return nil, errors.Wrap(err, "prepare option insert")
	}
	defer optionStmt.Close()

	questions := make([]model.Question, 0, len(inputs))
	for i, in := range inputs {
		q := model.Question{
			SurveyID:     surveyID,
			Question:     in.Question,
			ResponseType: in.ResponseType,
			Order:        i,
			Branching:    NormalizeBranching(in.Branching),
		}
		switch in.ResponseType {
		case model.FreeText:
			q.FreeTextDescription = in.FreeTextDescription
		case model.MultipleChoice:
			q.AllowMultiple = in.AllowMultiple
		}

		err := questionStmt.QueryRowContext(ctx,
			q.SurveyID, q.Question, q.ResponseType, q.FreeTextDescription,
			q.AllowMultiple, q.Order, jsonColumn(q.Branching),
		).Scan(&q.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "insert question %d", i)
		}

		if in.ResponseType == model.MultipleChoice {
			for j, text := range in.Options {
				if strings.TrimSpace(text) == "" {
					continue
				}
				o := model.Option{
					QuestionID: q.ID,
					Option:     text,
					Order:      j,
					Branching:  NormalizeBranching(in.OptionBranching[j]),
				}
				err := optionStmt.QueryRowContext(ctx, o.QuestionID, o.Option, o.Order, jsonColumn(o.Branching)).Scan(&o.ID)
				if err != nil {
					return nil, errors.Wrapf(err, "insert question %d option %d", i, j)
				}
				q.Options = append(q.Options, o)
			}
		}

		questions = append(questions, q)
	}
	return questions, nil
}

func attachRecipients(ctx context.Context, tx *sql.Tx, surveyID int64, contactIDs []int64, sentAt *time.Time) error {
	for start := 0; start < len(contactIDs); start += recipientBatchSize {
		end := start + recipientBatchSize
		if end > len(contactIDs) {
			end = len(contactIDs)
		}
		batch := contactIDs[start:end]

		values := strings.TrimSuffix(strings.Repeat("(?, ?, ?),", len(batch)), ",")
		args := make([]any, 0, len(batch)*3)
		for _, id := range batch {
			args = append(args, surveyID, id, sentAt)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO survey_recipient (survey_id, contact_id, sent_at)
			VALUES `+values,
			args...,
		)
		if err != nil {
			return errors.Wrap(err, "attach recipients")
		}
	}
	return nil
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func jsonColumn(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	return string(raw)
}
