package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
)

// HttpError is returned by handlers to answer with a specific status.
type HttpError struct {
	Status  int
	Message string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHttpError(status int, format string, args ...any) *HttpError {
	return &HttpError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// JsonHandlerFunc returns the value to encode as the response body. A nil
// value answers 204.
type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, sessionId string) (any, error)

func JsonHandler(fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(w, r)
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		result, err := fn(w, r, sessionId)
		if err != nil {
			status := http.StatusInternalServerError
			message := "internal error"
			var httpErr *HttpError
			if errors.As(err, &httpErr) {
				status = httpErr.Status
				message = httpErr.Message
			}
			if status >= http.StatusInternalServerError {
				log.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
			}
			WriteJson(w, status, map[string]string{"error": message})
			return
		}
		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteJson(w, http.StatusOK, result)
	}
}

func WriteJson(w http.ResponseWriter, status int, v any) {
	data, err := jsoncompat.Marshal(v)
	if err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
