package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router assembles the HTTP routes and standard middleware.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1/assessment", func(r chi.Router) {
		r.Post("/start-session", h.StartSession)
		r.Get("/get-next-question", h.GetNextQuestion)
		r.Post("/submit-answer", h.SubmitAnswer)
		r.Get("/session/{sessionID}", h.GetSession)
	})

	return r
}

func pathSessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}
