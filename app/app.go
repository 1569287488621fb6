package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/Alexotieno1717/bonga-survey-sub000/config"
	"github.com/Alexotieno1717/bonga-survey-sub000/survey"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config

	Surveys *survey.Store
	Creator *survey.Creator
	Syncer  *survey.Syncer
}

func New(db *sql.DB, bearerServer *oauth.BearerServer, cfg config.Config) App {
	return App{
		DB:           db,
		BearerServer: bearerServer,
		Config:       cfg,
		Surveys:      &survey.Store{DB: db},
		Creator:      survey.NewCreator(db, cfg.Location),
		Syncer:       &survey.Syncer{DB: db},
	}
}
