package handlers

import "net/http"

type NotFoundResponse struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	AvailableEndpoints []string `json:"available_endpoints"`
}

// NotFound answers unmatched routes with the list of endpoints the service exposes.
func NotFound(endpoints []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, NotFoundResponse{
			Success:            false,
			Message:            "Route " + r.Method + " " + r.URL.Path + " not found",
			AvailableEndpoints: endpoints,
		})
	}
}
