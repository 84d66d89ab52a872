package export

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-console/internal/scene"
)

func TestExportScene(t *testing.T) {
	store := scene.New(context.Background(), scene.Config{})
	store.SetBrightness(75)
	store.SavePreset()
	desc := "Friday show"

	exported, stats, err := NewService(store, "1.2.3").ExportScene(context.Background(), &desc)
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, exported.Version)
	require.NotNil(t, exported.Metadata)
	assert.Equal(t, "1.2.3", exported.Metadata.ConsoleVersion)
	assert.Equal(t, &desc, exported.Metadata.Description)
	assert.NotEmpty(t, exported.Metadata.ExportedAt)
	assert.Equal(t, 75, exported.MasterBrightness)
	assert.Equal(t, store.Groups(), exported.Groups)
	assert.Equal(t, scene.DefaultChannelNames, exported.ChannelNames)

	assert.Equal(t, 1, stats.GroupsCount)
	assert.Equal(t, 4, stats.LightsCount)
	assert.Equal(t, 16, stats.ChannelsCount)
	assert.Equal(t, 3, stats.PresetsCount)
	assert.Equal(t, 5, stats.ChannelNamesCount)
}

func TestExportScene_CanceledContext(t *testing.T) {
	store := scene.New(context.Background(), scene.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewService(store, "dev").ExportScene(ctx, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExportedScene_ToJSON(t *testing.T) {
	exported := &ExportedScene{
		Version:          FormatVersion,
		MasterBrightness: 50,
		Groups: []scene.Group{{
			ID: "g1", Name: "Front", ColorTag: "red",
			Lights: []scene.Light{{ID: "g1-1", Name: "Par", DMXAddress: 3, On: true,
				Channels: []scene.Channel{{Name: "Intensity", Value: 255}}}},
		}},
	}

	out, err := exported.ToJSON()
	require.NoError(t, err)

	assert.True(t, strings.Contains(out, `"controls"`))
	assert.True(t, strings.Contains(out, `"dmxAddress": 3`))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "1.0", decoded["version"])
	assert.NotContains(t, decoded, "metadata")
}

func TestParseExportedScene(t *testing.T) {
	exported := &ExportedScene{
		Version: FormatVersion,
		Groups:  []scene.Group{{ID: "g1", Lights: []scene.Light{}}},
		Presets: []scene.Preset{{ID: "p1", Name: "Rainbow", Type: scene.PresetEffect}},
	}
	content, err := exported.ToJSON()
	require.NoError(t, err)

	parsed, err := ParseExportedScene(content)
	require.NoError(t, err)
	assert.Equal(t, exported, parsed)
}

func TestParseExportedScene_LegacyArray(t *testing.T) {
	parsed, err := ParseExportedScene(` [{"id":"g1","name":"Group 1","color":"indigo","lights":[]}]`)
	require.NoError(t, err)

	assert.Equal(t, LegacyVersion, parsed.Version)
	require.Len(t, parsed.Groups, 1)
	assert.Equal(t, "indigo", parsed.Groups[0].ColorTag)
}

func TestParseExportedScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{not json"},
		{"invalid legacy", "[1, 2"},
		{"missing version", `{"groups": []}`},
		{"missing groups", `{"version": "1.0"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExportedScene(tt.content)
			assert.Error(t, err)
		})
	}
}
