package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"agriexpert/agronomy"
)

type errResp struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Message: msg})
}

// writeDomainErr maps agronomy errors onto the HTTP taxonomy: validation
// failures are 400 with the offending field list, conflicting re-reviews 409.
// Anything else is an internal error with a generic message.
func writeDomainErr(w http.ResponseWriter, err error) {
	if ve, ok := agronomy.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, errResp{Message: "validation failed", Fields: ve.Fields})
		return
	}
	if errors.Is(err, agronomy.ErrInvalidTransition) {
		writeErr(w, http.StatusConflict, "record already reviewed")
		return
	}
	writeErr(w, http.StatusInternalServerError, "internal error")
}
