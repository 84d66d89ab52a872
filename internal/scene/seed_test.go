package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
groups:
  - id: g1
    name: Front Wash
    color: amber
    lights:
      - id: g1-1
        name: Par 1
        dmxAddress: 1
        on: true
        controls:
          - {name: Intensity, value: 255}
          - {name: Red, value: 300}
      - name: Par 2
        dmxAddress: 600
        controls:
          - {name: Intensity, value: 128}
  - name: Back
`

func TestParseSeed(t *testing.T) {
	groups, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	front := groups[0]
	assert.Equal(t, "Front Wash", front.Name)
	assert.Equal(t, "amber", front.ColorTag)
	require.Len(t, front.Lights, 2)
	assert.Equal(t, 255, front.Lights[0].Channels[1].Value)
	assert.Equal(t, "g1-2", front.Lights[1].ID)
	assert.Equal(t, MaxDMXAddress, front.Lights[1].DMXAddress)

	assert.Equal(t, "g2", groups[1].ID)
	assert.NotNil(t, groups[1].Lights)
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := ParseSeed([]byte("groups: []"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("groups: [::"))
	assert.Error(t, err)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	groups, err := LoadSeedFile(path)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDemoScene(t *testing.T) {
	groups := DemoScene()
	require.Len(t, groups, 1)
	for i, l := range groups[0].Lights {
		assert.Equal(t, i+1, l.DMXAddress)
		assert.True(t, l.On)
		assert.Equal(t, RGB{}, ChannelRGB(l))
	}

	normalized, warnings := NormalizeGroups(groups)
	assert.Empty(t, warnings)
	assert.Equal(t, groups, normalized)
}
