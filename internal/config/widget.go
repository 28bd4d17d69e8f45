package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGreeting       = "Hi! I'm your PartSelect support assistant. How can I help you today?"
	DefaultGreetingMarker = "Hi!"
	DefaultMinQueryLength = 3
)

// DefaultPrompts are the example prompts offered under the conversation.
var DefaultPrompts = []string{
	"How to install part PS11752778?",
	"My Whirlpool dishwasher is leaking. What should I do?",
	"Is this part compatible with model WDT780SAEM1?",
}

// WidgetConfig holds the conversation policy and copy shown by the widget.
type WidgetConfig struct {
	Title          string   `yaml:"title"`
	Greeting       string   `yaml:"greeting"`
	GreetingMarker string   `yaml:"greeting_marker"`
	MinQueryLength int      `yaml:"min_query_length"`
	Prompts        []string `yaml:"prompts"`
}

func DefaultWidgetConfig() *WidgetConfig {
	return &WidgetConfig{
		Title:          "PartSelect Support",
		Greeting:       DefaultGreeting,
		GreetingMarker: DefaultGreetingMarker,
		MinQueryLength: DefaultMinQueryLength,
		Prompts:        append([]string(nil), DefaultPrompts...),
	}
}

// LoadWidgetConfig reads a YAML widget file. Fields missing from the file keep their defaults.
func LoadWidgetConfig(configPath string) (*WidgetConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read widget config: %w", err)
	}

	var file WidgetConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse widget config: %w", err)
	}

	config := DefaultWidgetConfig()
	if file.Title != "" {
		config.Title = file.Title
	}
	if file.Greeting != "" {
		config.Greeting = file.Greeting
	}
	if file.GreetingMarker != "" {
		config.GreetingMarker = file.GreetingMarker
	}
	if file.MinQueryLength > 0 {
		config.MinQueryLength = file.MinQueryLength
	}
	if len(file.Prompts) > 0 {
		config.Prompts = file.Prompts
	}

	return config, nil
}

// GetWidgetConfig resolves the widget config from WIDGET_CONFIG, then applies
// MIN_QUERY_LENGTH and GREETING_MARKER overrides.
func GetWidgetConfig() (*WidgetConfig, error) {
	config := DefaultWidgetConfig()

	if path := GetEnvOrDefault("WIDGET_CONFIG", ""); path != "" {
		loaded, err := LoadWidgetConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if n := parseEnvInt("MIN_QUERY_LENGTH", 0); n > 0 {
		config.MinQueryLength = n
	}
	if marker := GetEnvOrDefault("GREETING_MARKER", ""); marker != "" {
		config.GreetingMarker = marker
	}

	return config, nil
}
