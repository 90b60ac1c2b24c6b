package render

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// DefaultTheme is used whenever a requested theme is unknown.
const DefaultTheme = "NOIR & OR"

// Theme is a card palette.
type Theme struct {
	Name       string
	Background color.NRGBA // gradient top
	Head       color.NRGBA // header band, gradient bottom
	Accent     color.NRGBA // title, TN box, footer band
	Text       color.NRGBA // field values
	Label      color.NRGBA // field labels and separators
	TNText     color.NRGBA // text drawn on the accent color
}

var themeHexes = map[string][6]string{
	"NOIR & OR":     {"#050505", "#111", "#D4AF37", "white", "#666", "black"},
	"BLEU NUIT":     {"#0A192F", "#112240", "#64FFDA", "white", "#8892B0", "black"},
	"CYBERPUNK":     {"#000", "#111", "#FF00E0", "#33FF00", "#FF00E0", "white"},
	"MTN OFFICIEL":  {"#002147", "#FFD100", "#002147", "white", "#FFF2A6", "black"},
	"MOOV OFFICIEL": {"#001A0F", "#00A859", "#FFFFFF", "white", "#9FF5C8", "black"},
}

// ThemeNames lists the known palettes.
func ThemeNames() []string {
	return []string{"NOIR & OR", "BLEU NUIT", "CYBERPUNK", "MTN OFFICIEL", "MOOV OFFICIEL"}
}

// LookupTheme returns the named palette, or the default one when the name is
// unknown. The boolean reports whether the name matched.
func LookupTheme(name string) (Theme, bool) {
	hexes, ok := themeHexes[name]
	if !ok {
		name = DefaultTheme
		hexes = themeHexes[DefaultTheme]
	}
	cs := make([]color.NRGBA, len(hexes))
	for i, s := range hexes {
		c, err := parseColor(s)
		if err != nil {
			panic(fmt.Sprintf("render: bad palette %q: %v", name, err))
		}
		cs[i] = c
	}
	return Theme{
		Name:       name,
		Background: cs[0],
		Head:       cs[1],
		Accent:     cs[2],
		Text:       cs[3],
		Label:      cs[4],
		TNText:     cs[5],
	}, ok
}

// parseColor accepts #RGB, #RRGGBB, white and black.
func parseColor(s string) (color.NRGBA, error) {
	switch strings.ToLower(s) {
	case "white":
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}, nil
	case "black":
		return color.NRGBA{A: 255}, nil
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected 3 or 6 hex chars, got %q", s)
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex %q: %w", s, err)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 255}, nil
}

// cssHex formats a palette color for the HTML pages.
func cssHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
