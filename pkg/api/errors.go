package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cuemby/pulse-scheduler/pkg/scheduler"
)

// errorResponse is the JSON body returned for every non-2xx response.
type errorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// writeError maps a scheduler error to the status codes from §7 and
// writes the JSON error body. Anything not recognized becomes a 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *scheduler.ValidationError
	var nferr *scheduler.NotFoundError
	var nrerr *scheduler.NotReadyError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Reason, Field: verr.Field, Detail: verr.Detail})
	case errors.As(err, &nferr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NotFound", Detail: nferr.Error()})
	case errors.As(err, &nrerr):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "NotReady", Detail: nrerr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal", Detail: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
