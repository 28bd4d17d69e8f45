package handlers

import (
	"fmt"

	"github.com/partselect/partchat/internal/services/conversation"
	"github.com/partselect/partchat/internal/services/render"
)

// StateView is the JSON shape of a conversation sent to the widget, over
// HTTP and the websocket alike.
type StateView struct {
	Messages        []render.MessageView `json:"messages"`
	MessagesHTML    string               `json:"messages_html"`
	Input           string               `json:"input"`
	IsLoading       bool                 `json:"is_loading"`
	BannerError     string               `json:"banner_error"`
	ValidationError string               `json:"validation_error"`
}

func newStateView(renderer *render.Renderer, state conversation.State) (StateView, error) {
	views := renderer.Messages(state.Messages)
	fragment, err := renderer.MessagesFragment(views, state.IsLoading)
	if err != nil {
		return StateView{}, fmt.Errorf("failed to render messages: %w", err)
	}

	return StateView{
		Messages:        views,
		MessagesHTML:    fragment,
		Input:           state.Input,
		IsLoading:       state.IsLoading,
		BannerError:     state.BannerError,
		ValidationError: state.ValidationError,
	}, nil
}
