package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/Alexotieno1717/bonga-survey-sub000/app"
	"github.com/Alexotieno1717/bonga-survey-sub000/httpx"
	"github.com/Alexotieno1717/bonga-survey-sub000/log"
	"github.com/Alexotieno1717/bonga-survey-sub000/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Get("/healthz", Health(app))
	root.Mount("/api", apiRouter(app, middlewares.Authorized(app.TokenSecret)))

	return root
}

func apiRouter(app app.App, authorized func(http.Handler) http.Handler) http.Handler {
	api := chi.NewRouter()

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	api.Group(func(r chi.Router) {
		r.Use(authorized)

		r.Post("/surveys", CreateSurvey(app))
		r.Get("/surveys", ListSurveys(app))
		r.Get(`/surveys/{id:^\d+$}`, GetSurveyById(app))
		r.Post("/surveys/sync", SyncSurveyStatuses(app))

		r.Post("/contacts", CreateContact(app))
		r.Get("/contacts", ListContacts(app))
	})

	return api
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := app.PingContext(r.Context()); err != nil {
			httpx.LogStatus(w, http.StatusServiceUnavailable, log.ErrorLevel, "health.db_ping: "+err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
