package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Part is a product record returned alongside an answer
type Part struct {
	Title                string `json:"title"`
	Price                Price  `json:"price"`
	ImageURL             string `json:"image_url"`
	InstallationVideoURL string `json:"installation_video_url,omitempty"`
}

// HasVideo reports whether the part links to an installation video
func (p Part) HasVideo() bool {
	return strings.TrimSpace(p.InstallationVideoURL) != ""
}

// Price is a decimal amount in dollars. It decodes from a JSON number or from
// a numeric string such as "45.99" or "$1,045.99".
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
		if s == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", s, err)
		}
		*p = Price(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	*p = Price(v)
	return nil
}

func (p Price) Float64() float64 {
	return float64(p)
}
