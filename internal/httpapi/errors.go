package httpapi

import (
	"encoding/json"
	"net/http"

	"taskd/pkg/types"
)

// writeJSONError writes a transport-level error. Payload-level failures are
// not transport errors; they come back as 200 with {"error"} in the data part.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
