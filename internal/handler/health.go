package handler

import "net/http"

// Health handles GET /api/health. No auth — load balancers don't log in.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Student Records API is running",
	})
}
