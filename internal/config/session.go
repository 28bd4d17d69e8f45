package config

var (
	// SessionCookieName is the name of the session cookie
	// Default to "partchat_session" if not set in environment
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "partchat_session")
)

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	return SessionCookieName
}

// SetSessionCookieName temporarily changes the session cookie name and returns a function to restore it
// This is primarily used for testing
func SetSessionCookieName(name string) func() {
	previous := SessionCookieName
	SessionCookieName = name

	return func() {
		SessionCookieName = previous
	}
}

// GetSessionCookieSecure reports whether the session cookie carries the Secure flag.
// Local development over plain http needs this off.
func GetSessionCookieSecure() bool {
	return parseEnvBool("SESSION_COOKIE_SECURE", false)
}
