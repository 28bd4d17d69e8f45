package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/connections"
	"github.com/partselect/partchat/internal/infrastructure/assistant"
	"github.com/partselect/partchat/internal/infrastructure/openai"
	"github.com/partselect/partchat/internal/infrastructure/redis"
	"github.com/partselect/partchat/internal/services/conversation"
	"github.com/partselect/partchat/internal/services/render"
	"github.com/partselect/partchat/internal/services/session"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	redisService        *redis.Service
	sessionService      *session.Service
	conversationService *conversation.Service
	renderer            *render.Renderer
	connectionManager   *connections.Manager
	widgetConfig        *config.WidgetConfig
}

// InitializeServices initializes all required services from the environment
func InitializeServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	widgetConfig, err := config.GetWidgetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load widget config: %w", err)
	}

	// Initialize Redis service (optional)
	redisService := redis.NewService(config.GetRedisURL(), config.GetRedisPassword())

	sender, err := NewSender()
	if err != nil {
		return nil, err
	}

	s := New(sender, redisService, widgetConfig)
	log.Info().Msg("All services initialized successfully")
	return s, nil
}

// NewSender builds the assistant adapter selected by ASSISTANT_BACKEND.
func NewSender() (conversation.Sender, error) {
	switch config.GetAssistantBackend() {
	case config.BackendOpenAI:
		svc := openai.NewService(config.GetOpenAIKey(), config.GetOpenAIBaseURL(), config.GetOpenAIModel())
		if svc == nil {
			return nil, errors.New("the openai backend requires OPENAI_API_KEY")
		}
		return svc, nil
	default:
		return assistant.NewService(config.GetAssistantURL(), nil), nil
	}
}

// New wires the services around an existing sender. redisService may be nil.
func New(sender conversation.Sender, redisService *redis.Service, widgetConfig *config.WidgetConfig) *Services {
	sessionService := session.NewService(redisService)
	log.Info().Msg("Initializing session service")

	store := conversation.NewStore(redisService)
	conversationService := conversation.NewService(sender, store, widgetConfig)
	log.Info().
		Int("min_query_length", widgetConfig.MinQueryLength).
		Int("prompts", len(widgetConfig.Prompts)).
		Msg("Initializing conversation service")

	return &Services{
		redisService:        redisService,
		sessionService:      sessionService,
		conversationService: conversationService,
		renderer:            render.NewRenderer(widgetConfig.GreetingMarker),
		connectionManager:   connections.NewManager(connections.DefaultTimeouts),
		widgetConfig:        widgetConfig,
	}
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetConversationService returns the conversation service
func (s *Services) GetConversationService() *conversation.Service {
	return s.conversationService
}

// GetRenderer returns the widget renderer
func (s *Services) GetRenderer() *render.Renderer {
	return s.renderer
}

// GetConnectionManager returns the websocket connection manager
func (s *Services) GetConnectionManager() *connections.Manager {
	return s.connectionManager
}

// GetWidgetConfig returns the widget configuration
func (s *Services) GetWidgetConfig() *config.WidgetConfig {
	return s.widgetConfig
}

// Close releases the redis connection, if any.
func (s *Services) Close() error {
	if s.redisService == nil {
		return nil
	}
	return s.redisService.Close()
}
