package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/sequencer"
	"github.com/KirkDiggler/wod-character-wizard/internal/services"
)

func TestNewProvider_Defaults(t *testing.T) {
	provider := services.NewProvider(nil)
	require.NotNil(t, provider.WizardService)
	assert.NotNil(t, provider.Catalog)

	ctx := context.Background()
	session, err := provider.WizardService.Start(ctx)
	require.NoError(t, err)

	got, err := provider.WizardService.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Step)

	screen, err := got.Screen()
	require.NoError(t, err)
	assert.Equal(t, sequencer.ScreenIntro, screen.Type)
}
