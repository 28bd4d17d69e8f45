package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/partselect/partchat/internal/api/v1/middleware"
	"github.com/partselect/partchat/internal/services"
	"github.com/partselect/partchat/internal/services/conversation"
	"github.com/partselect/partchat/internal/services/render"
)

// HandleWidgetPage serves the server-rendered widget. ?prompt=<i> copies an
// example prompt into the input.
func HandleWidgetPage(s *services.Services, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	ctrl, err := s.GetConversationService().Controller(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load conversation")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	state := ctrl.State()
	if raw := r.URL.Query().Get("prompt"); raw != "" {
		if index, err := strconv.Atoi(raw); err == nil {
			state = ctrl.Dispatch(r.Context(), conversation.PromptSelected{Index: index})
		}
	}

	renderer := s.GetRenderer()
	widget := s.GetWidgetConfig()
	data := render.PageData{
		Title:           widget.Title,
		Messages:        renderer.Messages(state.Messages),
		Prompts:         s.GetConversationService().Policy().Prompts,
		Input:           state.Input,
		Loading:         state.IsLoading,
		BannerError:     state.BannerError,
		ValidationError: state.ValidationError,
		MinQueryLength:  widget.MinQueryLength,
	}

	var buf bytes.Buffer
	if err := renderer.Page(&buf, data); err != nil {
		logger.Error().Err(err).Msg("Failed to render widget page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Debug().Err(err).Msg("Failed to write widget page")
	}
}

// HandleWidgetSubmit is the form fallback for browsers without scripts. The
// outcome, including a validation error, is shown by the page it redirects to.
func HandleWidgetSubmit(s *services.Services, w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctrl, err := s.GetConversationService().Controller(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load conversation")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	text := r.PostFormValue("message")
	// Keep the typed text in the field if it is rejected.
	ctrl.Dispatch(r.Context(), conversation.InputChanged{Text: text})

	if _, err := ctrl.Submit(r.Context(), text); err != nil {
		switch {
		case errors.Is(err, conversation.ErrValidation):
			logger.Debug().Err(err).Msg("Form submission rejected")
		case errors.Is(err, conversation.ErrRequestInFlight):
			logger.Debug().Msg("Form submitted while a request is in flight")
		default:
			logger.Error().Err(err).Msg("Form submission failed")
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
