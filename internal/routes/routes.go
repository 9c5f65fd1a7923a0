package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindtrack/internal/handlers"
	"github.com/AnshRaj112/mindtrack/internal/metrics"
)

// AvailableEndpoints is reported by the 404 handler and logged at startup.
var AvailableEndpoints = []string{
	"GET    /health",
	"POST   /journal/entry",
	"GET    /journal/user/:id",
	"DELETE /journal/entry/:id",
	"POST   /contacts/add",
	"GET    /contacts/user/:id",
}

func SetupRoutes(r chi.Router, collector *metrics.Collector) {
	r.Get("/health", handlers.Health)

	// Journal routes
	r.Post("/journal/entry", handlers.CreateJournalEntry)
	r.Get("/journal/user/{userID}", handlers.GetJournalEntries)
	r.Delete("/journal/entry/{entryID}", handlers.DeleteJournalEntry)

	// Contact routes
	r.Post("/contacts/add", handlers.AddContact)
	r.Get("/contacts/user/{userID}", handlers.GetContacts)

	if collector != nil {
		r.Method("GET", "/metrics", collector.Handler())
	}

	r.NotFound(handlers.NotFound(AvailableEndpoints))
	r.MethodNotAllowed(handlers.NotFound(AvailableEndpoints))
}
