// Package theme maps named themes to the member colors stamped onto shared
// records.
package theme

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme names an accent hue. A user registered under a theme gets a color
// derived from that hue, so every member renders consistently on every device.
type Theme struct {
	Name string
	Hue  float64
}

// Default is the theme used when the configured name is unknown.
const Default = "dawn"

var themes = []Theme{
	{Name: "dawn", Hue: 14},
	{Name: "forest", Hue: 130},
	{Name: "ocean", Hue: 205},
	{Name: "plum", Hue: 290},
	{Name: "honey", Hue: 45},
	{Name: "slate", Hue: 235},
}

// Names lists the available theme names.
func Names() []string {
	out := make([]string, len(themes))
	for i, t := range themes {
		out[i] = t.Name
	}
	return out
}

// Lookup finds a theme by name, falling back to Default for unknown names.
func Lookup(name string) Theme {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, t := range themes {
		if t.Name == needle {
			return t
		}
	}
	return Lookup(Default)
}

// MemberColor derives a hex color from a stable per-identity index, so the
// same account renders the same color on every device. Distinct indices step
// around the hue wheel away from the accent, keeping nearby indices visually
// apart; unrelated identities can still hash to the same index and share a
// color.
func (t Theme) MemberColor(n int) string {
	hue := t.Hue + float64(n*47)
	for hue >= 360 {
		hue -= 360
	}
	return colorful.Hsv(hue, 0.52, 0.90).Hex()
}
