package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoogleProviderRequiresAPIKey(t *testing.T) {
	_, err := NewGoogleProvider(context.Background(), GoogleConfig{})
	require.Error(t, err)
}

func TestConvertGoogleMessages(t *testing.T) {
	contents := convertGoogleMessages([]Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
		{Role: RoleSystem, Content: "be brief"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "model", string(contents[1].Role))
	// system turns inside the history are sent as user turns
	assert.Equal(t, "user", string(contents[2].Role))

	require.NotEmpty(t, contents[0].Parts)
	assert.Equal(t, "hello", contents[0].Parts[0].Text)
}

func TestGoogleModelChain(t *testing.T) {
	provider := &GoogleProvider{config: applyGoogleDefaults(GoogleConfig{
		FlashModels: []string{"flash-a", "flash-b"},
		ProModels:   []string{"pro-a"},
	})}

	assert.Equal(t, []string{"flash-a", "flash-b"}, provider.modelChain(&Request{Tier: TierFlash}))
	assert.Equal(t, []string{"pro-a"}, provider.modelChain(&Request{Tier: TierPro}))
	assert.Equal(t, []string{"pinned"}, provider.modelChain(&Request{Model: "pinned", Tier: TierPro}))
}
