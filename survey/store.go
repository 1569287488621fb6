package survey

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/Alexotieno1717/bonga-survey-sub000/model"
)

var ErrNotFound = errors.New("not found")

// Store serves the read side of surveys and the contacts they target.
type Store struct {
	DB *sql.DB
}

func (s *Store) ListSurveys(ctx context.Context, ownerID int64) ([]model.SurveySummary, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT
			s.id, s.name, s.status, s.created_at,
			(SELECT COUNT(*) FROM question q WHERE q.survey_id = s.id),
			(SELECT COUNT(*) FROM survey_recipient r WHERE r.survey_id = s.id)
		FROM survey s
		WHERE s.created_by = ?
		ORDER BY s.created_at DESC, s.id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list surveys")
	}
	defer rows.Close()

	surveys := []model.SurveySummary{}
	for rows.Next() {
		var s model.SurveySummary
		err = rows.Scan(&s.ID, &s.Name, &s.Status, &s.CreatedAt, &s.QuestionCount, &s.RecipientCount)
		if err != nil {
			return nil, errors.Wrap(err, "list surveys.scan")
		}
		surveys = append(surveys, s)
	}
	return surveys, errors.Wrap(rows.Err(), "list surveys.rows")
}

// GetSurvey loads one of the owner's surveys with its questions and options.
func (s *Store) GetSurvey(ctx context.Context, ownerID, id int64) (model.Survey, error) {
	survey := model.Survey{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT
			id, name, description, start_date, end_date, trigger_word,
			completion_message, invitation_message, scheduled_time,
			status, created_by, created_at,
			(SELECT COUNT(*) FROM survey_recipient r WHERE r.survey_id = survey.id)
		FROM survey
		WHERE id = ? AND created_by = ?`,
		id, ownerID,
	).Scan(
		&survey.ID, &survey.Name, &survey.Description, &survey.StartDate, &survey.EndDate, &survey.TriggerWord,
		&survey.CompletionMessage, &survey.InvitationMessage, &survey.ScheduledTime,
		&survey.Status, &survey.CreatedBy, &survey.CreatedAt,
		&survey.RecipientCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Survey{}, ErrNotFound
	}
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "get survey")
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT
			q.id, q.question, q.response_type, q.free_text_description,
			q.allow_multiple, q.position, q.branching,
			o.id, o.option, o.position, o.branching
		FROM question q
		LEFT OUTER JOIN question_option o ON (q.id = o.question_id)
		WHERE q.survey_id = ?
		ORDER BY q.position, o.position`,
		id,
	)
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "get survey.questions")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			q                      model.Question
			qBranching, oBranching sql.NullString
			optionID, optionOrder  sql.NullInt64
			optionText             sql.NullString
		)
		err = rows.Scan(
			&q.ID, &q.Question, &q.ResponseType, &q.FreeTextDescription,
			&q.AllowMultiple, &q.Order, &qBranching,
			&optionID, &optionText, &optionOrder, &oBranching,
		)
		if err != nil {
			return model.Survey{}, errors.Wrap(err, "get survey.questions.scan")
		}

		last := len(survey.Questions) - 1
		if last < 0 || survey.Questions[last].ID != q.ID {
			q.SurveyID = id
			q.Branching = rawColumn(qBranching)
			survey.Questions = append(survey.Questions, q)
			last++
		}
		if optionID.Valid {
			survey.Questions[last].Options = append(survey.Questions[last].Options, model.Option{
				ID:         optionID.Int64,
				QuestionID: q.ID,
				Option:     optionText.String,
				Order:      int(optionOrder.Int64),
				Branching:  rawColumn(oBranching),
			})
		}
	}
	return survey, errors.Wrap(rows.Err(), "get survey.questions.rows")
}

// Recipients lists the recipient links of a survey ordered by contact.
func (s *Store) Recipients(ctx context.Context, surveyID int64) ([]model.Recipient, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT survey_id, contact_id, sent_at
		FROM survey_recipient
		WHERE survey_id = ?
		ORDER BY contact_id`,
		surveyID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "recipients")
	}
	defer rows.Close()

	recipients := []model.Recipient{}
	for rows.Next() {
		var r model.Recipient
		if err = rows.Scan(&r.SurveyID, &r.ContactID, &r.SentAt); err != nil {
			return nil, errors.Wrap(err, "recipients.scan")
		}
		recipients = append(recipients, r)
	}
	return recipients, errors.Wrap(rows.Err(), "recipients.rows")
}

func (s *Store) CreateContact(ctx context.Context, c model.Contact) (model.Contact, error) {
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO contact (user_id, name, phone) VALUES (?, ?, ?)
		RETURNING id`,
		c.UserID, c.Name, c.Phone,
	).Scan(&c.ID)
	return c, errors.Wrap(err, "insert contact")
}

func (s *Store) ListContacts(ctx context.Context, ownerID int64) ([]model.Contact, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, name, phone
		FROM contact
		WHERE user_id = ?
		ORDER BY name, id`,
		ownerID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err = rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Phone); err != nil {
			return nil, errors.Wrap(err, "list contacts.scan")
		}
		contacts = append(contacts, c)
	}
	return contacts, errors.Wrap(rows.Err(), "list contacts.rows")
}

// OwnedContacts implements ContactChecker.
func (s *Store) OwnedContacts(ctx context.Context, ownerID int64, ids []int64) (map[int64]bool, error) {
	owned := map[int64]bool{}
	if len(ids) == 0 {
		return owned, nil
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, ownerID)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id FROM contact
		WHERE user_id = ? AND id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "owned contacts")
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "owned contacts.scan")
		}
		owned[id] = true
	}
	return owned, errors.Wrap(rows.Err(), "owned contacts.rows")
}

func rawColumn(s sql.NullString) []byte {
	if !s.Valid {
		return nil
	}
	return []byte(s.String)
}
