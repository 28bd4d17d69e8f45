package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/partselect/partchat/internal/api/v1/middleware"
	"github.com/partselect/partchat/internal/services"
	"github.com/partselect/partchat/internal/services/conversation"
	"github.com/partselect/partchat/pkg/httpext"
)

const maxSubmitBodyBytes = 64 << 10

// SubmitRequest is the body of POST /v1/chat/messages.
type SubmitRequest struct {
	Query string `json:"query" validate:"max=4000"`
}

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

// HandleGetChat returns the session's conversation.
func HandleGetChat(s *services.Services, w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.GetConversationService().Controller(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load conversation")
		httpext.JsonError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}

	writeState(s, w, r, http.StatusOK, ctrl.State())
}

// HandleSubmitMessage validates and submits a query. The answer is not
// awaited: the response carries the loading state and the resolved state
// follows over the websocket.
func HandleSubmitMessage(s *services.Services, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	var req SubmitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBodyBytes)).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		logger.Warn().Err(err).Msg("Request validation failed")
		httpext.JsonErrorWithDetails(w, http.StatusUnprocessableEntity, httpext.ErrorResponse{
			Error:            "validation_error",
			ErrorDescription: "Your message is too long.",
		})
		return
	}

	ctrl, err := s.GetConversationService().Controller(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load conversation")
		httpext.JsonError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}

	state, err := ctrl.Submit(r.Context(), req.Query)
	var verr *conversation.ValidationError
	switch {
	case errors.As(err, &verr):
		httpext.JsonErrorWithDetails(w, http.StatusUnprocessableEntity, httpext.ErrorResponse{
			Error:            "validation_error",
			ErrorDescription: verr.Message,
		})
	case errors.Is(err, conversation.ErrRequestInFlight):
		httpext.JsonErrorWithDetails(w, http.StatusConflict, httpext.ErrorResponse{
			Error:            "request_in_flight",
			ErrorDescription: "Please wait for the current answer.",
		})
	case err != nil:
		logger.Error().Err(err).Msg("Failed to submit query")
		httpext.JsonError(w, "Failed to submit query", http.StatusInternalServerError)
	default:
		writeState(s, w, r, http.StatusAccepted, state)
	}
}

// HandleSelectPrompt copies example prompt {index} into the input.
func HandleSelectPrompt(s *services.Services, w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 || index >= len(s.GetConversationService().Policy().Prompts) {
		httpext.JsonError(w, "Unknown prompt", http.StatusNotFound)
		return
	}

	ctrl, err := s.GetConversationService().Controller(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to load conversation")
		httpext.JsonError(w, "Failed to load conversation", http.StatusInternalServerError)
		return
	}

	writeState(s, w, r, http.StatusOK, ctrl.Dispatch(r.Context(), conversation.PromptSelected{Index: index}))
}

// HandleResetChat drops the session's conversation and its cookie. The next
// request starts a new session with a fresh greeting.
func HandleResetChat(s *services.Services, w http.ResponseWriter, r *http.Request) {
	if err := s.GetConversationService().Forget(r.Context(), middleware.SessionID(r.Context())); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to delete conversation")
		httpext.JsonError(w, "Failed to reset conversation", http.StatusInternalServerError)
		return
	}
	s.GetSessionService().ClearSession(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func writeState(s *services.Services, w http.ResponseWriter, r *http.Request, code int, state conversation.State) {
	view, err := newStateView(s.GetRenderer(), state)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to render conversation")
		httpext.JsonError(w, "Failed to render conversation", http.StatusInternalServerError)
		return
	}
	httpext.JsonResponse(w, code, view)
}
