// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shivamvadalia/libraryms/internal/logging"
	"github.com/shivamvadalia/libraryms/internal/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id attached by RequestLogger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLogger tags each request with an id (taken from X-Request-ID or
// freshly generated), echoes it in the response and writes an access log
// line once the handler returns.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RequestID(r.Context()) != "" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		rec := metrics.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		logging.L.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}
