package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/nmoreno/quotecalc/internal/clients"
	"github.com/nmoreno/quotecalc/internal/config"
	"github.com/nmoreno/quotecalc/internal/db"
	"github.com/nmoreno/quotecalc/internal/migrations"
	"github.com/nmoreno/quotecalc/internal/rates"
	"github.com/nmoreno/quotecalc/internal/seed"
	"github.com/nmoreno/quotecalc/internal/store"
)

type server struct {
	rates    *rates.Store
	clients  *clients.Repository
	log      *logrus.Logger
	validate *validator.Validate
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	log := newLogger(cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.WithError(err).Fatal("failed to run database migrations")
		}
	}

	slots := store.NewSlots(database)

	stats, err := seed.Run(slots, cfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("failed to seed storage slots")
	}
	if stats.Inserts > 0 {
		log.WithField("inserts", stats.Inserts).Info("bootstrapped storage slots")
	}

	rateStore := rates.New(slots, cfg.DataDir, log)
	rateStore.Load()

	repo := clients.NewRepository(slots, cfg.DataDir, log)
	repo.Load()

	srv := &server{
		rates:    rateStore,
		clients:  repo,
		log:      log,
		validate: validator.New(),
	}

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("listening")
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
		r.Post("/config/reset", s.handleResetConfig)

		r.Get("/presets", s.handleListPresets)
		r.Get("/presets/{tier}", s.handleGetPreset)

		r.Post("/quotes/preview", s.handlePreviewQuote)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.handleListClients)
			r.Post("/", s.handleCreateClient)

			r.Route("/{clientID}", func(r chi.Router) {
				r.Get("/", s.handleGetClient)
				r.Put("/", s.handleUpdateClient)
				r.Delete("/", s.handleDeleteClient)

				r.Post("/quotes", s.handleSaveQuote)
				r.Delete("/quotes/{quoteID}", s.handleDeleteQuote)
				r.Post("/quotes/{quoteID}/duplicate", s.handleDuplicateQuote)
				r.Get("/quotes/{quoteID}/text", s.handleQuoteText)
			})
		})
	})

	return r
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
