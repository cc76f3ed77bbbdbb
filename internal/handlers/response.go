package handlers

import (
	"encoding/json"
	"net/http"

	"authform/internal/form"
	"authform/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Message: msg})
}

// fieldOrder fixes which validation message becomes the top-level one
var fieldOrder = []form.Field{form.FieldEmail, form.FieldPassword, form.FieldUsername, form.FieldGender, form.FieldContact}

func writeValidationError(w http.ResponseWriter, errs form.ErrorMap) {
	resp := models.ErrorResponse{Errors: make(map[string]string, len(errs))}
	for _, f := range fieldOrder {
		fe, ok := errs[f]
		if !ok {
			continue
		}
		if resp.Message == "" {
			resp.Message = fe.Message
		}
		resp.Errors[string(f)] = fe.Message
	}
	writeJSON(w, http.StatusBadRequest, resp)
}
