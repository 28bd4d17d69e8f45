package config

import "strings"

const (
	// BackendHTTP talks to a partchat-compatible POST /query endpoint.
	BackendHTTP = "http"
	// BackendOpenAI talks to an OpenAI-compatible chat completions API.
	BackendOpenAI = "openai"
)

const defaultAssistantURL = "http://localhost:8000"

// GetAssistantURL returns the origin of the assistant backend, without trailing slash
func GetAssistantURL() string {
	return strings.TrimRight(GetEnvOrDefault("ASSISTANT_API_URL", defaultAssistantURL), "/")
}

// GetAssistantBackend returns which adapter answers queries
func GetAssistantBackend() string {
	switch strings.ToLower(GetEnvOrDefault("ASSISTANT_BACKEND", BackendHTTP)) {
	case BackendOpenAI:
		return BackendOpenAI
	default:
		return BackendHTTP
	}
}
