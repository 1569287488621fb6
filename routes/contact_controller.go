package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/Alexotieno1717/bonga-survey-sub000/app"
	"github.com/Alexotieno1717/bonga-survey-sub000/httpx"
	"github.com/Alexotieno1717/bonga-survey-sub000/log"
	"github.com/Alexotieno1717/bonga-survey-sub000/model"
	"github.com/Alexotieno1717/bonga-survey-sub000/routes/middlewares"
)

func CreateContact(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact := model.Contact{}
		err := render.DecodeJSON(r.Body, &contact)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		contact.UserID = middlewares.Owner(r)
		contact.Name = strings.TrimSpace(contact.Name)
		contact.Phone = strings.TrimSpace(contact.Phone)
		if contact.Phone == "" {
			httpx.LogInvalid(w, r, "request.validate", map[string]string{"phone": "required"})
			return
		}

		contact, err = app.Surveys.CreateContact(r.Context(), contact)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_contact", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, contact)
	}
}

func ListContacts(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contacts, err := app.Surveys.ListContacts(r.Context(), middlewares.Owner(r))
		if err != nil {
			httpx.LogInternalError(w, "db.get_contacts", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"contacts": contacts,
		})
	}
}
