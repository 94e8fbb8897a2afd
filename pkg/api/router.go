package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(s *Syncer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	return applyRoutes(r, s)
}

func applyRoutes(r chi.Router, s *Syncer) chi.Router {
	r.Route("/", func(r chi.Router) {
		r.Get("/", getIndex)
		r.Get("/jobs", s.getJobs)
		r.Post("/jobs/{name}/run", s.postRunJob)
		r.Post("/run", s.postRun)
	})

	return r
}

func getIndex(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, http.StatusOK, []byte("sheetsync ok\n"))
}

func (s *Syncer) getJobs(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.Jobs())
}

func (s *Syncer) postRunJob(w http.ResponseWriter, r *http.Request) {
	s.respondRun(w, r, chi.URLParam(r, "name"))
}

func (s *Syncer) postRun(w http.ResponseWriter, r *http.Request) {
	s.respondRun(w, r)
}

func (s *Syncer) respondRun(w http.ResponseWriter, r *http.Request, names ...string) {
	results, err := s.Run(r.Context(), names...)
	resp := RunResponse{Results: results}
	switch {
	case errors.Is(err, ErrUnknownJob):
		render.Status(r, http.StatusNotFound)
		resp.Error = err.Error()
	case err != nil:
		render.Status(r, http.StatusInternalServerError)
		resp.Error = err.Error()
	}
	render.JSON(w, r, resp)
}

func sendResponse(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
