// Package settings holds the free-form settings document of the business:
// assistant identity, widget theme, working hours and booking toggles.
package settings

import (
	"fmt"

	"agendapro/models"

	"github.com/mitchellh/mapstructure"
)

// Document is the settings record as stored and served, an arbitrary JSON object.
type Document = map[string]any

// Defaults returns a fresh copy of the settings a new business starts with.
func Defaults() Document {
	week := make([]any, 7)
	for i := 0; i < 6; i++ {
		week[i] = map[string]any{"open": true, "start": "08:00", "end": "18:00"}
	}
	week[6] = map[string]any{"open": false, "start": "08:00", "end": "18:00"}

	return Document{
		"assistantName":      "Assistente AgendaPro",
		"tone":               "Profissional",
		"greeting":           "Olá! 👋 Sou o assistente virtual. Como posso ajudar você hoje?",
		"embedUrl":           "",
		"customInstructions": "",
		"assistantTheme": map[string]any{
			"presetIndex":  0,
			"showHeader":   true,
			"bubbleRadius": "xl",
		},
		"hours":       week,
		"autoBooking": true,
	}
}

// Merge returns base with patch applied. Objects present on both sides are merged
// key by key, recursively; any other value in patch replaces the one in base.
// Neither argument is modified.
func Merge(base, patch Document) Document {
	out := Clone(base)
	if out == nil {
		out = Document{}
	}
	for k, pv := range patch {
		pm, pIsObj := pv.(map[string]any)
		bm, bIsObj := out[k].(map[string]any)
		if pIsObj && bIsObj {
			out[k] = Merge(bm, pm)
			continue
		}
		out[k] = cloneValue(pv)
	}
	return out
}

// Clone deep-copies a settings document.
func Clone(doc Document) Document {
	if doc == nil {
		return nil
	}
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return Clone(t)
	case []any:
		cp := make([]any, len(t))
		for i := range t {
			cp[i] = cloneValue(t[i])
		}
		return cp
	default:
		return v
	}
}

// Decode reads the typed fields the engine cares about out of doc.
// Keys that are absent keep their zero value, so a document without "hours"
// decodes to an empty WorkingHours and every day resolves as closed.
func Decode(doc Document) (models.Settings, error) {
	var s models.Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return s, fmt.Errorf("settings decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return s, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
