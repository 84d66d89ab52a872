package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DemoScene returns the scene used when nothing usable is in storage:
// one group of four RGB lights patched at addresses 1-4.
func DemoScene() []Group {
	lights := make([]Light, 4)
	for i := range lights {
		lights[i] = Light{
			ID:         fmt.Sprintf("g1-%d", i+1),
			Name:       defaultLightName(i + 1),
			DMXAddress: i + 1,
			Channels: []Channel{
				{Name: ChannelIntensity, Value: 255},
				{Name: ChannelRed, Value: 0},
				{Name: ChannelGreen, Value: 0},
				{Name: ChannelBlue, Value: 0},
			},
			On: true,
		}
	}
	return []Group{{
		ID:       "g1",
		Name:     "Group 1",
		ColorTag: groupColorTags[0],
		Lights:   lights,
	}}
}

// seedFile is the YAML layout of a seed scene.
type seedFile struct {
	Groups []Group `yaml:"groups"`
}

// LoadSeedFile reads a fallback scene from a YAML file.
func LoadSeedFile(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed scene: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML seed scene and normalizes it.
func ParseSeed(data []byte) ([]Group, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed scene: %w", err)
	}
	if len(seed.Groups) == 0 {
		return nil, fmt.Errorf("seed scene has no groups")
	}
	groups, _ := NormalizeGroups(seed.Groups)
	return groups, nil
}
