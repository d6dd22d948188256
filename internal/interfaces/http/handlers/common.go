package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/turtacn/AutoCompare-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AutoCompare-Intelligence/pkg/errors"
)

// DefaultMaxBodySize caps request bodies when no limit is configured.
const DefaultMaxBodySize int64 = 4 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeError maps err to its HTTP status. Server-side failures are logged
// and masked.
func writeError(w http.ResponseWriter, log logging.Logger, err error) {
	var ae *errors.AppError
	if !stderrors.As(err, &ae) {
		ae = errors.Wrap(err, errors.ErrCodeInternal, "internal server error")
	}
	status := ae.HTTPStatus()
	resp := ErrorResponse{Code: ae.Code.String(), Message: ae.Message, Detail: ae.Detail}
	if status >= http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		resp.Message = errors.DefaultMessageForCode(ae.Code)
		resp.Detail = ""
	} else if ae.Cause != nil && resp.Detail == "" {
		resp.Detail = ae.Cause.Error()
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a single JSON document of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.As(err, &tooLarge):
			return errors.New(errors.ErrCodeBadRequest, "request body too large")
		case stderrors.Is(err, io.EOF):
			return errors.New(errors.ErrCodeBadRequest, "request body is empty")
		default:
			return errors.Wrap(err, errors.ErrCodeBadRequest, "malformed JSON body")
		}
	}
	if dec.More() {
		return errors.New(errors.ErrCodeBadRequest, "request body must hold a single JSON document")
	}
	return nil
}
