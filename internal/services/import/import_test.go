package importservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-console/internal/scene"
	"github.com/bbernstein/lacylights-console/internal/services/export"
)

const backup = `{
  "version": "1.0",
  "masterBrightness": 20,
  "groups": [
    {"id": "g1", "name": "Back", "color": "red", "lights": [
      {"id": "g1-1", "name": "Wash", "dmxAddress": 40, "on": true,
       "controls": [{"name": "Intensity", "value": 255}, {"name": "Strobe", "value": 999}]}
    ]}
  ],
  "channelNames": ["Intensity", "Strobe"],
  "presets": [{"id": "p1", "name": "Amber", "type": "static", "color": "#ffbf00"}]
}`

func newStore() *scene.Store {
	return scene.New(context.Background(), scene.Config{})
}

func TestImportModeConstants(t *testing.T) {
	assert.Equal(t, "REPLACE", string(ImportModeReplace))
	assert.Equal(t, "MERGE", string(ImportModeMerge))
}

func TestImportScene_Replace(t *testing.T) {
	store := newStore()
	store.SelectScope(scene.LightScope("g1-3"))

	stats, warnings, err := NewService(store).ImportScene(context.Background(), backup, ImportOptions{Mode: ImportModeReplace})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.GroupsImported)
	assert.Equal(t, 1, stats.LightsImported)
	assert.Equal(t, 1, stats.PresetsImported)
	assert.Equal(t, 1, stats.ChannelNamesImported)
	assert.NotEmpty(t, warnings, "out of range value is reported")

	groups := store.Groups()
	require.Len(t, groups, 1)
	assert.Equal(t, "Back", groups[0].Name)
	assert.Equal(t, 255, groups[0].Lights[0].Channels[1].Value)
	assert.Equal(t, scene.MasterScope(), store.Scope())
	assert.Equal(t, []scene.Preset{{ID: "p1", Name: "Amber", Type: scene.PresetStatic, Color: "#ffbf00"}}, store.Presets())
	assert.Contains(t, store.ChannelNames(), "Strobe")
	assert.Equal(t, 50, store.MasterBrightness(), "brightness is only restored on request")
}

func TestImportScene_CountsOnlyAddedChannelNames(t *testing.T) {
	store := newStore()
	content := `{"version": "1.0", "groups": [], "channelNames": [" Red ", "Zoom", " Zoom", "  "]}`

	stats, _, err := NewService(store).ImportScene(context.Background(), content, ImportOptions{Mode: ImportModeMerge})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ChannelNamesImported)
	assert.Equal(t, append(append([]string{}, scene.DefaultChannelNames...), "Zoom"), store.ChannelNames())
}

func TestImportScene_Merge(t *testing.T) {
	store := newStore()

	stats, _, err := NewService(store).ImportScene(context.Background(), backup, ImportOptions{Mode: ImportModeMerge})
	require.NoError(t, err)

	groups := store.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "g1", groups[0].ID)
	assert.Equal(t, "g2", groups[1].ID)
	assert.Equal(t, "g2-1", groups[1].Lights[0].ID)
	assert.Len(t, store.Presets(), 3)
	assert.Equal(t, 1, stats.PresetsImported)
}

func TestImportScene_DefaultModeIsReplace(t *testing.T) {
	store := newStore()

	_, _, err := NewService(store).ImportScene(context.Background(), backup, ImportOptions{})
	require.NoError(t, err)

	assert.Len(t, store.Groups(), 1)
	assert.Equal(t, "Back", store.Groups()[0].Name)
}

func TestImportScene_RestoreBrightness(t *testing.T) {
	store := newStore()

	_, _, err := NewService(store).ImportScene(context.Background(), backup, ImportOptions{RestoreBrightness: true})
	require.NoError(t, err)

	assert.Equal(t, 20, store.MasterBrightness())
	assert.Equal(t, 51, store.Groups()[0].Lights[0].Channels[0].Value)
}

func TestImportScene_LegacyArray(t *testing.T) {
	store := newStore()
	legacy := `[{"id":"g5","name":"Old","color":"teal","lights":[{"id":"g5-1","name":"Light 1","dmxAddress":1,"controls":[],"on":false}]}]`

	stats, _, err := NewService(store).ImportScene(context.Background(), legacy, ImportOptions{RestoreBrightness: true})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.LightsImported)
	assert.Equal(t, 0, stats.PresetsImported)
	assert.Equal(t, "g5", store.Groups()[0].ID)
	assert.Len(t, store.Presets(), 2, "legacy imports keep the current presets")
	assert.Equal(t, 50, store.MasterBrightness())
}

func TestImportScene_Errors(t *testing.T) {
	store := newStore()
	svc := NewService(store)

	_, _, err := svc.ImportScene(context.Background(), "{oops", ImportOptions{})
	assert.Error(t, err)

	_, _, err = svc.ImportScene(context.Background(), backup, ImportOptions{Mode: "CREATE"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = svc.ImportScene(ctx, backup, ImportOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Len(t, store.Groups()[0].Lights, 4, "failed imports leave the scene alone")
}

func TestImportScene_ExportRoundTrip(t *testing.T) {
	source := newStore()
	source.SetColor("#336699")
	source.AddGroup()
	exported, _, err := export.NewService(source, "test").ExportScene(context.Background(), nil)
	require.NoError(t, err)
	content, err := exported.ToJSON()
	require.NoError(t, err)

	target := scene.New(context.Background(), scene.Config{Fallback: []scene.Group{}})
	_, warnings, err := NewService(target).ImportScene(context.Background(), content, ImportOptions{})
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Equal(t, source.Groups(), target.Groups())
	assert.Equal(t, source.Presets(), target.Presets())
}
