package util

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// WriteJSON encodes resp as the JSON body of the response. If resp carries a
// status code (see types.Response), it's used as the response status,
// otherwise the status is 200 OK.
func WriteJSON(w http.ResponseWriter, resp any) error {
	w.Header().Set("Content-Type", "application/json")

	status := http.StatusOK
	if r, ok := resp.(interface{ GetStatusCode() int }); ok {
		status = r.GetStatusCode()
	}
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("failed encoding JSON response: %w", err)
	}

	return nil
}

// WriteText writes a plain text response with the given status.
func WriteText(w http.ResponseWriter, status int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("failed writing text response: %w", err)
	}

	return nil
}
