package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partselect/partchat/internal/config"
	"github.com/partselect/partchat/internal/domain/chat/models"
)

func TestServiceControllerPerSession(t *testing.T) {
	svc := NewService(newGatedSender(models.Message{}), nil, config.DefaultWidgetConfig())

	a, err := svc.Controller(context.Background(), "a")
	require.NoError(t, err)
	again, err := svc.Controller(context.Background(), "a")
	require.NoError(t, err)
	b, err := svc.Controller(context.Background(), "b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)

	state := a.State()
	require.Len(t, state.Messages, 1)
	assert.Equal(t, config.DefaultGreeting, state.Messages[0].Content)
	assert.Equal(t, config.DefaultPrompts, svc.Policy().Prompts)
	assert.Equal(t, config.DefaultMinQueryLength, svc.Policy().MinQueryLength)
}

func TestServiceRestoresStoredState(t *testing.T) {
	store := NewMemoryStore()
	stored := NewState("Hi!")
	stored.Messages = append(stored.Messages, models.NewUserMessage("stored question"))
	require.NoError(t, store.Save(context.Background(), "s", stored))

	svc := NewService(newGatedSender(models.Message{}), store, config.DefaultWidgetConfig())
	c, err := svc.Controller(context.Background(), "s")
	require.NoError(t, err)
	assert.Len(t, c.State().Messages, 2)
}

func TestServiceRecoversOrphanedRequest(t *testing.T) {
	store := NewMemoryStore()
	loading, _ := Update(NewState("Hi!"), Submitted{Text: "lost request"}, testPolicy)
	require.NoError(t, store.Save(context.Background(), "s", loading))

	svc := NewService(newGatedSender(models.Message{}), store, config.DefaultWidgetConfig())
	c, err := svc.Controller(context.Background(), "s")
	require.NoError(t, err)

	state := c.State()
	assert.False(t, state.IsLoading)
	assert.True(t, state.Messages[len(state.Messages)-1].IsError)
	assert.NotEmpty(t, state.BannerError)
}

func TestServicePruneAndForget(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(newGatedSender(models.Message{}), store, config.DefaultWidgetConfig())

	c, err := svc.Controller(context.Background(), "s")
	require.NoError(t, err)
	c.Dispatch(context.Background(), InputChanged{Text: "kept"})

	assert.Equal(t, 0, svc.Prune(time.Hour))
	assert.Equal(t, 1, svc.Prune(0))

	restored, err := svc.Controller(context.Background(), "s")
	require.NoError(t, err)
	assert.NotSame(t, c, restored)
	assert.Equal(t, "kept", restored.State().Input)

	require.NoError(t, svc.Forget(context.Background(), "s"))
	stored, err := store.Load(context.Background(), "s")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestNewStoreFallsBackToMemory(t *testing.T) {
	_, ok := NewStore(nil).(*MemoryStore)
	assert.True(t, ok)
}

func TestServiceForgetDoesNotWaitForRequest(t *testing.T) {
	store := NewMemoryStore()
	sender := newGatedSender(models.NewAssistantMessage("Hi! late answer", nil))
	svc := NewService(sender, store, config.DefaultWidgetConfig())

	old, err := svc.Controller(context.Background(), "s")
	require.NoError(t, err)
	_, err = old.Submit(context.Background(), "where is my part?")
	require.NoError(t, err)

	require.NoError(t, svc.Forget(context.Background(), "s"))

	fresh, err := svc.Controller(context.Background(), "s")
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	state := fresh.State()
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.BannerError)
	assert.Len(t, state.Messages, 1)
	fresh.Dispatch(context.Background(), InputChanged{Text: "starting over"})

	close(sender.release)
	old.Wait()

	stored, err := store.Load(context.Background(), "s")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Messages, 1)
	assert.Equal(t, "starting over", stored.Input)
}

func TestMemoryStoreExpiresStates(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), "old", NewState("Hi!")))
	now = now.Add(StateLifetime / 2)
	require.NoError(t, store.Save(context.Background(), "new", NewState("Hi!")))

	now = now.Add(StateLifetime / 2)
	stored, err := store.Load(context.Background(), "old")
	require.NoError(t, err)
	assert.Nil(t, stored)

	stored, err = store.Load(context.Background(), "new")
	require.NoError(t, err)
	assert.NotNil(t, stored)

	svc := NewService(newGatedSender(models.Message{}), store, config.DefaultWidgetConfig())
	svc.Prune(time.Hour)
	assert.Len(t, store.entries, 1)
	assert.Contains(t, store.entries, "new")
}
