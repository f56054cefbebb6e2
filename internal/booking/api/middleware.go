package api

import (
	"fmt"
	"net/http"
	"time"

	"bus-booking/internal/utils"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request with its final status and duration.
func (h *Handler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		h.Logger.LogAPI(r.Method, r.URL.Path,
			fmt.Sprintf("%d (%s)", rec.status, time.Since(start).Round(time.Millisecond)))
	})
}

// Recoverer converts panics into a 500 envelope. Outside dev mode the
// panic detail stays in the log and out of the response body.
func (h *Handler) Recoverer(devMode bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					h.Logger.Error("API", fmt.Sprintf("Panic on %s %s: %v", r.Method, r.URL.Path, rec))

					detail := "An unexpected error occurred"
					if devMode {
						detail = fmt.Sprintf("%v", rec)
					}
					h.writeJSON(w, http.StatusInternalServerError,
						utils.ErrorResponse("Internal server error", detail))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
