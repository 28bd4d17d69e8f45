// Package assistant is the HTTP transport to the PartSelect assistant backend.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

// errorBodyLimit caps how much of a failed response body is logged.
const errorBodyLimit = 2048

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant API returned status %d", e.StatusCode)
}

type Service struct {
	client  *http.Client
	baseURL string
}

type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the body of a successful POST /query. Backends that split
// the model's deliberation from its answer send Answer and Reasoning;
// the rest send everything in Response.
type QueryResponse struct {
	Response      string        `json:"response"`
	Answer        string        `json:"answer,omitempty"`
	Reasoning     string        `json:"reasoning,omitempty"`
	RelevantParts []models.Part `json:"relevant_parts"`
}

// Content returns the user-facing answer text.
func (r *QueryResponse) Content() string {
	if r.Answer != "" {
		return r.Answer
	}
	return r.Response
}

// NewService returns a client for the backend at baseURL. A nil client gets a
// default one without a timeout: requests run until the backend answers.
func NewService(baseURL string, client *http.Client) *Service {
	if client == nil {
		client = &http.Client{}
	}

	log.Info().Str("base_url", baseURL).Msg("Assistant HTTP backend configured")

	return &Service{
		client:  client,
		baseURL: baseURL,
	}
}

// Query issues one POST /query and returns the decoded body.
func (s *Service) Query(ctx context.Context, query string) (*QueryResponse, error) {
	jsonData, err := json.Marshal(QueryRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/query", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	log.Debug().Int("query_length", len(query)).Msg("Sending query to assistant backend")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().Int("status", resp.StatusCode).Msg("Assistant backend responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		if readErr == nil {
			log.Warn().
				Int("status", resp.StatusCode).
				Str("body", string(body)).
				Msg("Assistant backend error response")
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var queryResp QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if queryResp.RelevantParts == nil {
		queryResp.RelevantParts = []models.Part{}
	}

	return &queryResp, nil
}

// Send asks the backend and always returns a well-formed assistant message.
// Failures of any kind come back as the apology message with IsError set.
func (s *Service) Send(ctx context.Context, query string) models.Message {
	start := time.Now()

	resp, err := s.Query(ctx, query)
	if err != nil {
		log.Error().
			Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("Assistant query failed")
		return models.NewErrorMessage()
	}

	log.Info().
		Int("response_length", len(resp.Content())).
		Int("parts_count", len(resp.RelevantParts)).
		Dur("elapsed", time.Since(start)).
		Msg("Assistant query answered")

	return models.NewAssistantMessage(resp.Content(), resp.RelevantParts)
}
