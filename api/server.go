// Package api serves the HTTP control surface for storyboards.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/matt-g-everett/ledtime/document"
	"github.com/matt-g-everett/ledtime/stream"
	"github.com/matt-g-everett/ledtime/timing"
)

var log = logrus.WithField("component", "api")

// Controller is what the API drives. *stream.Controller implements it.
type Controller interface {
	Do(ctx context.Context, fn func(*stream.Controller) error) error
}

// API holds the handlers' dependencies.
type API struct {
	controller Controller
	// Static is a directory served at the root, if set.
	Static string
}

// NewAPI creates an API driving controller.
func NewAPI(controller Controller) *API {
	a := new(API)
	a.controller = controller
	return a
}

// Router returns the API routes.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/storyboards", func(r chi.Router) {
		r.Get("/", a.ListStoryboards)
		r.Get("/{name}", a.GetStoryboard)
		r.Post("/{name}/{action}", a.Control)
	})
	r.Post("/playlist/next", a.Next)

	if a.Static != "" {
		r.Handle("/*", http.FileServer(http.Dir(a.Static)))
	}
	return r
}

// Serve listens on addr until ctx is cancelled.
func (a *API) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      a.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("listening")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
			return server.Close()
		}
		return nil
	}
}

// ListStoryboards handles GET /storyboards.
func (a *API) ListStoryboards(w http.ResponseWriter, r *http.Request) {
	var list []stream.StoryboardStatus
	err := a.controller.Do(r.Context(), func(c *stream.Controller) error {
		list = c.List()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetStoryboard handles GET /storyboards/{name}.
func (a *API) GetStoryboard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var st stream.StoryboardStatus
	err := a.controller.Do(r.Context(), func(c *stream.Controller) (err error) {
		st, err = c.Status(name)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Control handles POST /storyboards/{name}/{action}, where action is one
// of begin, pause, resume, stop, skip or seek. Seek takes its target from
// the "to" query parameter.
func (a *API) Control(w http.ResponseWriter, r *http.Request) {
	msg := stream.ControlMessage{
		Action:     chi.URLParam(r, "action"),
		Storyboard: chi.URLParam(r, "name"),
		To:         r.URL.Query().Get("to"),
	}
	switch msg.Action {
	case stream.ActionBegin, stream.ActionPause, stream.ActionResume, stream.ActionStop, stream.ActionSkip:
	case stream.ActionSeek:
		if msg.To == "" {
			http.Error(w, "missing seek target", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}

	var st stream.StoryboardStatus
	err := a.controller.Do(r.Context(), func(c *stream.Controller) error {
		if err := c.Apply(msg); err != nil {
			return err
		}
		var err error
		st, err = c.Status(msg.Storyboard)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	log.WithFields(logrus.Fields{"storyboard": msg.Storyboard, "action": msg.Action}).Info("control")
	writeJSON(w, http.StatusOK, st)
}

// Next handles POST /playlist/next.
func (a *API) Next(w http.ResponseWriter, r *http.Request) {
	var current string
	err := a.controller.Do(r.Context(), func(c *stream.Controller) error {
		if err := c.Next(); err != nil {
			return err
		}
		current = c.Current()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"current": current})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("encoding response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, stream.ErrUnknownStoryboard):
		status = http.StatusNotFound
	case errors.Is(err, timing.ErrNotStarted):
		status = http.StatusConflict
	case errors.Is(err, document.ErrSyntax):
		status = http.StatusBadRequest
	case errors.Is(err, timing.ErrManagerShutdown):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	http.Error(w, err.Error(), status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
			"request":  middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
