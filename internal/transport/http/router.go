package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"quiz-reply-service/internal/app"
)

// NewRouter wires the JSON and websocket transports behind the standard middleware stack.
func NewRouter(service *app.ChatService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", NewWSHandler(service).ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		NewHandler(service).Register(r)
	})
	return r
}
