// Package server assembles all HTTP handlers and starts the gateway.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calldesk/console/internal/activity"
	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/handler"
	"github.com/calldesk/console/internal/session"
	"github.com/calldesk/console/internal/wire"
)

// Config holds gateway configuration.
type Config struct {
	Port     int
	Backend  *backend.Client
	Sessions *session.Manager
	Bus      *eventbus.Bus
}

// Router builds the chi router with all routes registered. The login and
// WebSocket endpoints carry their own auth; everything else requires a
// bearer token.
func Router(cfg Config) http.Handler {
	hub := wire.NewHub()
	feed := activity.NewFeed(1000)
	cfg.Bus.Subscribe("log", eventbus.NewLogConsumer())
	cfg.Bus.Subscribe("activity-feed", feed)
	cfg.Bus.Subscribe("wire-hub", hub)

	ah := handler.NewAuthHandler(cfg.Sessions)
	lh := handler.NewLeadHandler(cfg.Backend, cfg.Bus)
	fh := handler.NewFormHandler(cfg.Backend, cfg.Bus)
	ph := handler.NewPaymentHandler(cfg.Backend, cfg.Bus)
	nh := handler.NewNoteHandler(cfg.Backend, cfg.Bus)
	acth := handler.NewActivityHandler(feed)
	wh := wire.NewHandler(cfg.Sessions, cfg.Backend, hub)

	r := chi.NewRouter()
	r.Use(handler.Recovery, handler.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/v1/login", ah.Login)
	r.Handle("/v1/ws", wh)

	r.Group(func(r chi.Router) {
		r.Use(handler.Auth(cfg.Sessions))

		r.Post("/v1/logout", ah.Logout)

		r.Get("/v1/leads", lh.List)
		r.Get("/v1/passport-holders", lh.PassportHolders)
		r.Get("/v1/leads/{leadID}", lh.Get)
		r.Put("/v1/leads/{leadID}/status", lh.UpdateStatus)

		r.Get("/v1/forms", fh.List)
		r.Get("/v1/forms/dispatch-queue", fh.DispatchQueue)
		r.Post("/v1/forms/transfer", fh.Transfer)
		r.Put("/v1/forms/{formID}", fh.Update)
		r.Post("/v1/forms/{formID}/dispatch/{kind}", fh.MarkDispatch)
		r.Get("/v1/leads/{leadID}/form", fh.GetByLead)
		r.Post("/v1/leads/{leadID}/form", fh.Create)
		r.Post("/v1/leads/{leadID}/interview", fh.ApplyInterview)
		r.Get("/v1/staff-heads", fh.StaffHeads)
		r.Get("/v1/interview-managers", fh.InterviewManagers)
		r.Get("/v1/countries", fh.Countries)
		r.Get("/v1/countries/{countryID}/jobs", fh.Jobs)

		r.Get("/v1/leads/{leadID}/payments", ph.Book)
		r.Post("/v1/leads/{leadID}/payments", ph.Submit)

		r.Get("/v1/leads/{leadID}/notes", nh.List)
		r.Post("/v1/leads/{leadID}/notes", nh.Create)

		r.Get("/v1/leads/{leadID}/activity", acth.ByLead)
		r.Get("/v1/activity", acth.Mine)
	})

	return r
}

// Run starts the HTTP server with all routes registered and shuts it down
// when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	cfg.Bus.Start(ctx)

	router := Router(cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("starting console gateway on %s", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
		cfg.Bus.Stop()
	}()

	return srv.ListenAndServe()
}
