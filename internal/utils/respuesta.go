package utils

import (
	"encoding/json"
	"net/http"
)

// RespuestaError es la forma estándar de error de la API: {"success":false,"error":...}.
type RespuestaError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// RespondJSON serializa el payload con el status indicado.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// RespondError responde un error legible para el usuario final.
func RespondError(w http.ResponseWriter, status int, mensaje string) {
	RespondJSON(w, status, RespuestaError{Success: false, Error: mensaje})
}
