package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Alexotieno1717/bonga-survey-sub000/app"
	"github.com/Alexotieno1717/bonga-survey-sub000/database"
	"github.com/Alexotieno1717/bonga-survey-sub000/httpx"
	"github.com/Alexotieno1717/bonga-survey-sub000/log"
	"github.com/Alexotieno1717/bonga-survey-sub000/model"
	"github.com/Alexotieno1717/bonga-survey-sub000/routes/middlewares"
	"github.com/Alexotieno1717/bonga-survey-sub000/survey"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := survey.CreateSurveyRequest{}
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		owner := middlewares.Owner(r)
		in, err := req.Validate(r.Context(), app.Surveys, owner, app.Location)
		var invalid *survey.ValidationError
		switch {
		case errors.As(err, &invalid):
			httpx.LogInvalid(w, r, "request.validate", invalid.Fields)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.owned_contacts", err)
			return
		}

		s, err := app.Creator.Create(r.Context(), in, owner)
		switch {
		case database.IsUniqueViolation(err):
			httpx.LogInvalid(w, r, "db.insert_survey.trigger_word", map[string]string{
				"trigger_word": "already in use",
			})
			return
		case database.IsForeignKeyViolation(err):
			httpx.LogInvalid(w, r, "db.insert_survey.recipients", map[string]string{
				"recipients": "unknown contact",
			})
			return
		case err != nil:
			httpx.LogInternalError(w, "db.insert_survey", err)
			return
		}

		log.Debugf("survey.create: id=%d status=%s recipients=%d", s.ID, s.Status, s.RecipientCount)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":     s.ID,
			"status": s.Status,
		})
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.Surveys.ListSurveys(r.Context(), middlewares.Owner(r))
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		s, err := app.Surveys.GetSurvey(r.Context(), middlewares.Owner(r), surveyId)
		switch {
		case errors.Is(err, survey.ErrNotFound):
			httpx.LogNotFound(w, "get_survey", surveyId)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		render.JSON(w, r, s)
	}
}

// SyncSurveyStatuses runs the status sync for today on demand.
func SyncSurveyStatuses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := model.DateOf(app.Creator.Now())
		res, err := app.Syncer.Run(r.Context(), today)
		if err != nil {
			httpx.LogInternalError(w, "db.sync_statuses", err)
			return
		}

		log.WithFields(log.Fields{
			"activated": res.Activated,
			"completed": res.Completed,
		}).Info("survey.sync: on demand")
		render.JSON(w, r, res)
	}
}
