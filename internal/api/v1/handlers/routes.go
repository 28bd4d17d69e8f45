package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/partselect/partchat/internal/api/v1/middleware"
	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/services"
)

// NewHandler returns the router wrapped in request logging and CORS. Both sit
// outside the router so they also see unmatched and preflight requests.
func NewHandler(services *services.Services, logger zerolog.Logger) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, services)
	return middleware.RequestLogger(logger)(middleware.CORS(config.GetAllowedOrigins())(router))
}

func RegisterRoutes(router *mux.Router, services *services.Services) {
	router.HandleFunc("/health", HandleHealth).Methods("GET")

	sessions := middleware.RequireSession(services.GetSessionService())

	// Widget page
	widgetRouter := router.NewRoute().Subrouter()
	widgetRouter.Use(sessions)
	widgetRouter.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		HandleWidgetPage(services, w, r)
	}).Methods("GET")
	widgetRouter.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		HandleWidgetSubmit(services, w, r)
	}).Methods("POST")

	// v1 chat routes
	v1chatRouter := router.PathPrefix("/v1/chat").Subrouter()
	v1chatRouter.Use(sessions)
	v1chatRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		HandleGetChat(services, w, r)
	}).Methods("GET")
	v1chatRouter.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		HandleResetChat(services, w, r)
	}).Methods("DELETE")
	v1chatRouter.Handle("/messages", middleware.RateLimit("chat_submit")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleSubmitMessage(services, w, r)
	}))).Methods("POST")
	v1chatRouter.HandleFunc("/prompts/{index}", func(w http.ResponseWriter, r *http.Request) {
		HandleSelectPrompt(services, w, r)
	}).Methods("POST")
	v1chatRouter.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		HandleChatWebSocket(services, w, r)
	}).Methods("GET")
}
