package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseDateParam reads the {date} path value and checks it is an ISO date.
func parseDateParam(r *http.Request) (string, bool) {
	date := r.PathValue("date")
	return date, datePattern.MatchString(date)
}
