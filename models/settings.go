package models

// AssistantTheme controls how the chat widget is rendered.
type AssistantTheme struct {
	PresetIndex  int    `json:"presetIndex" mapstructure:"presetIndex"`
	ShowHeader   bool   `json:"showHeader" mapstructure:"showHeader"`
	BubbleRadius string `json:"bubbleRadius" mapstructure:"bubbleRadius"`
}

// Settings is the typed view over the free-form settings document.
type Settings struct {
	AssistantName      string         `json:"assistantName" mapstructure:"assistantName"`
	Tone               string         `json:"tone" mapstructure:"tone"`
	Greeting           string         `json:"greeting" mapstructure:"greeting"`
	EmbedURL           string         `json:"embedUrl" mapstructure:"embedUrl"`
	CustomInstructions string         `json:"customInstructions" mapstructure:"customInstructions"`
	AssistantTheme     AssistantTheme `json:"assistantTheme" mapstructure:"assistantTheme"`
	Hours              WorkingHours   `json:"hours" mapstructure:"hours"`
	AutoBooking        bool           `json:"autoBooking" mapstructure:"autoBooking"`
}
