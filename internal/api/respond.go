// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/shivamvadalia/libraryms/internal/db"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorBody struct {
	Detail string `json:"detail"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("failed to write response: %v", err)
	}
}

// writeError renders err. ErrNotFound becomes 404 with the localized
// notFoundID message; everything else is a logged 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundID string) {
	if errors.Is(err, db.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: i18n.T(notFoundID)})
		return
	}
	logging.L.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Detail: i18n.T("internal_error")})
}

func writeUnprocessable(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{Detail: detail})
}

// pathID parses the named route variable as an integer. On failure it
// writes a 422 and reports false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		writeUnprocessable(w, i18n.T("invalid_identifier", name))
		return 0, false
	}
	return id, true
}

// params reads the named parameters from the query string or a form body.
// Present but empty values are accepted. A missing one writes a 422 and
// reports false.
func params(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	if err := r.ParseForm(); err != nil {
		writeUnprocessable(w, err.Error())
		return nil, false
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		vals, ok := r.Form[name]
		if !ok || len(vals) == 0 {
			writeUnprocessable(w, i18n.T("missing_parameter", name))
			return nil, false
		}
		out = append(out, vals[0])
	}
	return out, true
}
