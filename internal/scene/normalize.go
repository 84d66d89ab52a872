package scene

import (
	"fmt"
)

// NormalizeGroups returns a deep copy of groups that the store can hold:
// every group has an id and a unique one, light ids are unique
// within their group, addresses sit in [1,512] and channel values in [0,255].
// Each repair is reported as a warning.
func NormalizeGroups(groups []Group) ([]Group, []string) {
	var warnings []string
	out := make([]Group, 0, len(groups))
	seenGroups := make(map[string]bool)

	for _, src := range groups {
		g := Group{
			ID:       src.ID,
			Name:     src.Name,
			ColorTag: src.ColorTag,
			Lights:   make([]Light, 0, len(src.Lights)),
		}
		if g.ID == "" || seenGroups[g.ID] {
			newID := fmt.Sprintf("g%d", nextGroupNumber(out))
			warnings = append(warnings, fmt.Sprintf("group %q assigned id %s", src.Name, newID))
			g.ID = newID
		}
		if g.ColorTag == "" {
			g.ColorTag = groupColorTags[len(out)%len(groupColorTags)]
		}
		seenGroups[g.ID] = true

		seenLights := make(map[string]bool)
		for _, l := range src.Lights {
			light := cloneLight(l)
			if light.Channels == nil {
				light.Channels = []Channel{}
			}
			if light.ID == "" || seenLights[light.ID] {
				light.ID = nextLightID(&g)
				warnings = append(warnings, fmt.Sprintf("light %q in group %s assigned id %s", l.Name, g.ID, light.ID))
			}
			if addr := clampAddress(light.DMXAddress); addr != light.DMXAddress {
				warnings = append(warnings, fmt.Sprintf("light %s address %d clamped to %d", light.ID, light.DMXAddress, addr))
				light.DMXAddress = addr
			}
			for i := range light.Channels {
				if v := clampValue(light.Channels[i].Value); v != light.Channels[i].Value {
					warnings = append(warnings, fmt.Sprintf("light %s channel %s value %d clamped to %d",
						light.ID, light.Channels[i].Name, light.Channels[i].Value, v))
					light.Channels[i].Value = v
				}
			}
			seenLights[light.ID] = true
			g.Lights = append(g.Lights, light)
		}

		out = append(out, g)
	}

	return out, warnings
}
