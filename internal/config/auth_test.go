package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns default when env not set",
			key:          "PARTCHAT_TEST_KEY_1",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
		{
			name:         "returns env value when set",
			key:          "PARTCHAT_TEST_KEY_2",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := GetEnvOrDefault(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("GetEnvOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJWTSecretManagement(t *testing.T) {
	originalSecret := GetJWTSecret()
	newSecret := []byte("test-secret")

	restore := SetJWTSecret(newSecret)
	if string(GetJWTSecret()) != string(newSecret) {
		t.Errorf("GetJWTSecret() = %s, want %s", GetJWTSecret(), newSecret)
	}

	restore()
	if string(GetJWTSecret()) != string(originalSecret) {
		t.Errorf("GetJWTSecret() after restore = %s, want %s", GetJWTSecret(), originalSecret)
	}
}

func TestJWTSecretReadsEnvironmentLazily(t *testing.T) {
	t.Setenv("JWT_SECRET", "set-after-start")
	if got := string(GetJWTSecret()); got != "set-after-start" {
		t.Errorf("GetJWTSecret() = %s, want set-after-start", got)
	}

	restore := SetJWTSecret([]byte("override"))
	if got := string(GetJWTSecret()); got != "override" {
		t.Errorf("GetJWTSecret() = %s, want override", got)
	}
	restore()

	os.Unsetenv("JWT_SECRET")
	if got := string(GetJWTSecret()); got != defaultJWTSecret {
		t.Errorf("GetJWTSecret() = %s, want %s", got, defaultJWTSecret)
	}
}

func TestSessionCookieName(t *testing.T) {
	restore := SetSessionCookieName("test_cookie")
	if got := GetSessionCookieName(); got != "test_cookie" {
		t.Errorf("GetSessionCookieName() = %s, want test_cookie", got)
	}
	restore()
	if got := GetSessionCookieName(); got == "test_cookie" {
		t.Error("GetSessionCookieName() was not restored")
	}
}
