package settings

var assistantStringKeys = []string{
	"assistantName",
	"tone",
	"greeting",
	"embedUrl",
	"customInstructions",
}

// AssistantPatch keeps only the assistant keys of body whose values have the
// expected type: strings for the text fields and an object for assistantTheme.
// Everything else is dropped silently.
func AssistantPatch(body map[string]any) Document {
	patch := Document{}
	for _, k := range assistantStringKeys {
		if v, ok := body[k].(string); ok {
			patch[k] = v
		}
	}
	if theme, ok := body["assistantTheme"].(map[string]any); ok {
		patch["assistantTheme"] = Clone(theme)
	}
	return patch
}
