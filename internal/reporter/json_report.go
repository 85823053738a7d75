package reporter

import (
	"encoding/json"
	"io"

	"github.com/aleister1102/livewatch/internal/models"
)

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteJSONReport writes the full snapshot.
func WriteJSONReport(w io.Writer, snap models.Snapshot) error {
	return WriteJSON(w, snap)
}
