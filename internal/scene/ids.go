package scene

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// groupColorTags is cycled through as groups are added.
var groupColorTags = []string{
	"indigo",
	"green",
	"red",
	"amber",
	"blue",
	"purple",
	"pink",
	"teal",
}

var (
	lightNamePattern = regexp.MustCompile(`(?i)^Light\s+(\d+)$`)
	groupIDPattern   = regexp.MustCompile(`^g(\d+)$`)
	presetIDPattern  = regexp.MustCompile(`^p(\d+)$`)
)

// maxSuffix returns the largest numeric capture of pattern across values.
func maxSuffix(pattern *regexp.Regexp, values []string) int {
	max := 0
	for _, v := range values {
		m := pattern.FindStringSubmatch(v)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max
}

// nextSequence picks max(highest suffix+1, count+1).
func nextSequence(pattern *regexp.Regexp, values []string) int {
	next := maxSuffix(pattern, values) + 1
	if n := len(values) + 1; n > next {
		next = n
	}
	return next
}

// nextLightNumber returns N for the next default "Light N" name in g.
func nextLightNumber(g *Group) int {
	if g == nil {
		return 1
	}
	names := make([]string, len(g.Lights))
	for i, l := range g.Lights {
		names[i] = strings.TrimSpace(l.Name)
	}
	return maxSuffix(lightNamePattern, names) + 1
}

// nextLightID returns the id for a new light appended to g.
func nextLightID(g *Group) string {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(g.ID) + `-(\d+)$`)
	ids := make([]string, len(g.Lights))
	for i, l := range g.Lights {
		ids[i] = l.ID
	}
	return fmt.Sprintf("%s-%d", g.ID, nextSequence(pattern, ids))
}

// nextGroupNumber returns N for a new group "gN".
func nextGroupNumber(groups []Group) int {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return nextSequence(groupIDPattern, ids)
}

// nextPresetID returns the id for a newly saved preset.
func nextPresetID(presets []Preset) string {
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
	}
	return fmt.Sprintf("p%d", nextSequence(presetIDPattern, ids))
}

func defaultLightName(n int) string {
	return fmt.Sprintf("Light %d", n)
}
