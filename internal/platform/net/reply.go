// Package net holds the wire envelope shared by all HTTP surfaces
package net

import (
	"encoding/json"
	"net/http"

	perr "rolelink/internal/platform/errors"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Wire is a common envelope used by transports
type Wire struct {
	StatusCode int               `json:"status_code"`
	Status     string            `json:"status"`
	Code       perr.ErrorCode    `json:"code,omitempty"`
	Error      string            `json:"error,omitempty"`
	I18nKey    string            `json:"i18n,omitempty"`
	I18nData   map[string]string `json:"i18n_data,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Data       any               `json:"data,omitempty"`
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	return http.StatusOK, Wire{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		RequestID:  reqID,
		Data:       data,
	}
}

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) {
	return http.StatusCreated, Wire{
		StatusCode: http.StatusCreated,
		Status:     http.StatusText(http.StatusCreated),
		RequestID:  reqID,
		Data:       data,
	}
}

// Error builds an error envelope. User-facing errors carry their details and
// i18n payload; everything else is reduced to the code description.
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		I18nKey:    w.I18nKey,
		I18nData:   w.I18nData,
		RequestID:  reqID,
	}
}

// WriteJSON serializes an envelope onto the response
func WriteJSON(w http.ResponseWriter, status int, body Wire) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RequestID extracts the chi request id from ctx, empty when absent
func RequestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}

// RespondOK writes a 200 envelope for data
func RespondOK(w http.ResponseWriter, r *http.Request, data any) {
	status, body := OK(data, RequestID(r))
	WriteJSON(w, status, body)
}

// RespondCreated writes a 201 envelope for data
func RespondCreated(w http.ResponseWriter, r *http.Request, data any) {
	status, body := Created(data, RequestID(r))
	WriteJSON(w, status, body)
}

// RespondError writes an error envelope
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := Error(err, RequestID(r))
	WriteJSON(w, status, body)
}
