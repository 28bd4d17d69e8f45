package config

// GetOpenAIKey returns the API key for the OpenAI-compatible backend
func GetOpenAIKey() string {
	return GetEnvOrDefault("OPENAI_API_KEY", "")
}

// GetOpenAIBaseURL returns the base URL of the OpenAI-compatible backend.
// Empty means the public OpenAI endpoint.
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", "deepseek-ai/deepseek-r1")
}
