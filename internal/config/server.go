package config

func GetPort() string {
	return GetEnvOrDefault("PORT", "8080")
}

// GetAllowedOrigins returns the CORS origins allowed to call the JSON API
func GetAllowedOrigins() []string {
	return parseEnvList("ALLOWED_ORIGINS", []string{"*"})
}
