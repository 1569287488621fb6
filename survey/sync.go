package survey

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

type SyncResult struct {
	Activated int64 `json:"activated"`
	Completed int64 `json:"completed"`
}

// Syncer reconciles stored survey statuses with the calendar.
type Syncer struct {
	DB *sql.DB
}

// only surveys that have dispatched at least one invitation move on their own
const dispatched = `
	EXISTS (
		SELECT 1 FROM survey_recipient r
		WHERE r.survey_id = survey.id
			AND r.sent_at IS NOT NULL
	)`

// Run activates draft surveys whose window contains today and completes
// draft or active surveys whose window has passed. Running it again for the
// same day changes nothing.
func (s *Syncer) Run(ctx context.Context, today model.Date) (res SyncResult, err error) {
	res.Activated, err = s.exec(ctx, "activate", `
		UPDATE survey
		SET status = ?
		WHERE status = ?
			AND start_date <= ?
			AND end_date >= ?
			AND`+dispatched,
		model.StatusActive, model.StatusDraft, today, today,
	)
	if err != nil {
		return
	}

	res.Completed, err = s.exec(ctx, "complete", `
		UPDATE survey
		SET status = ?
		WHERE status IN (?, ?)
			AND end_date < ?
			AND`+dispatched,
		model.StatusCompleted, model.StatusDraft, model.StatusActive, today,
	)
	return
}

func (s *Syncer) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	r, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, op+".rows_affected")
	}
	return n, nil
}
