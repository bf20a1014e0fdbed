package api

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	// The BR Code payload may carry characters the encoder would otherwise
	// escape for HTML embedding; the payload must reach clients byte-exact.
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(data)
}
