package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Price
		wantErr bool
	}{
		{"number", `45.99`, 45.99, false},
		{"integer", `12`, 12, false},
		{"numeric string", `"45.99"`, 45.99, false},
		{"dollar string with grouping", `"$1,045.50"`, 1045.50, false},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"garbage string", `"N/A"`, 0, true},
		{"boolean", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			err := json.Unmarshal([]byte(tt.input), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.want), p.Float64(), 0.0001)
		})
	}
}

func TestPartDecodesBackendShape(t *testing.T) {
	body := `{"title":"Door Shelf Bin","price":"36.08","image_url":"https://img.example/bin.jpg","installation_video_url":"https://video.example/bin"}`

	var p Part
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	assert.Equal(t, "Door Shelf Bin", p.Title)
	assert.InDelta(t, 36.08, p.Price.Float64(), 0.0001)
	assert.True(t, p.HasVideo())

	p.InstallationVideoURL = "  "
	assert.False(t, p.HasVideo())
}

func TestMessageConstructors(t *testing.T) {
	user := NewUserMessage("How to install part PS11752778?")
	assert.Equal(t, RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotNil(t, user.RelevantParts)
	assert.False(t, user.IsAssistant())

	answer := NewAssistantMessage("Hi!", nil)
	assert.True(t, answer.IsAssistant())
	assert.Empty(t, answer.RelevantParts)
	assert.NotNil(t, answer.RelevantParts)

	failed := NewErrorMessage()
	assert.True(t, failed.IsError)
	assert.Equal(t, ApologyText, failed.Content)
	assert.Empty(t, failed.RelevantParts)
	assert.NotEqual(t, user.ID, failed.ID)
}

func TestSystemPrompt(t *testing.T) {
	p := DefaultSystemPrompt()
	assert.Contains(t, p.String(), "PartSelect")
	assert.Contains(t, p.String(), `"Hi!"`)
	assert.Equal(t, "custom", NewSystemPrompt("custom").String())
}
