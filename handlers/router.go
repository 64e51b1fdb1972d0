package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/ebridges/metaproc/processor"
)

// NewRouter assembles the event-handler HTTP surface.
func NewRouter(proc *processor.Processor) http.Handler {
	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	h := &ProcessHandler{Processor: proc}
	r.Get("/health", Health)
	r.Get("/process/{owner}/{file}", h.ProcessImage)
	r.Post("/events", h.ProcessBatch)

	return r
}
