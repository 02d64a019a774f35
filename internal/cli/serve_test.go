package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-timelapse/internal/config"
	"github.com/i474232898/weather-timelapse/internal/kml"
	"github.com/i474232898/weather-timelapse/internal/viewer"
)

type nopFetcher struct{}

func (nopFetcher) Fetch(context.Context, string) (*kml.KML, error) {
	return nil, errors.New("unused")
}

func TestNewPageDeps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := newPageDeps(ctx, &config.AppConfig{PageURL: "http://localhost/"}, nopFetcher{}, func() (*viewer.Globe, error) {
		return viewer.NewGlobe(), nil
	})
	require.NotNil(t, deps.Globe)
	assert.True(t, deps.Globe.Visible())
	assert.NotNil(t, deps.Driver)
	assert.NotNil(t, deps.Locator)
	assert.Empty(t, deps.Page.Alerts())
}

func TestNewPageDeps_ViewerFailure(t *testing.T) {
	deps := newPageDeps(context.Background(), &config.AppConfig{}, nopFetcher{}, func() (*viewer.Globe, error) {
		return nil, errors.New("ERR_CREATE_PLUGIN")
	})
	assert.Nil(t, deps.Globe)
	assert.Nil(t, deps.Driver)
	assert.Nil(t, deps.Locator)

	alerts := deps.Page.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "Error!: ERR_CREATE_PLUGIN", alerts[0].Message)
}
