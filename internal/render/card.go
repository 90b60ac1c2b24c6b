package render

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"ftthdesk/internal/record"
)

const (
	cardWidth  = 1200
	cardHeight = 1250

	headerHeight = 160
	footerHeight = 70
	fieldStartY  = 200
	fieldStep    = 130
	fieldMaxX    = 720
	marginX      = 50
)

const (
	cardTitle  = "FICHE D'INSTALLATION FTTH"
	cardFooter = "MG TELECOM - SYSTÈME DE GESTION FTTH"
)

// fontSet holds parsed fonts. Faces are not safe for concurrent use, so each
// card gets its own from newFaces.
type fontSet struct {
	bold    *truetype.Font
	regular *truetype.Font
}

type cardFaces struct {
	title, label, value, tn font.Face
}

// loadFonts parses the TTF at path for both weights, or the embedded Go
// fonts when path is empty.
func loadFonts(path string) (*fontSet, error) {
	if path == "" {
		bold, err := truetype.Parse(gobold.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bold font: %w", err)
		}
		regular, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse regular font: %w", err)
		}
		return &fontSet{bold: bold, regular: regular}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return &fontSet{bold: f, regular: f}, nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (fs *fontSet) newFaces() cardFaces {
	return cardFaces{
		title: newFace(fs.bold, 55),
		label: newFace(fs.bold, 22),
		value: newFace(fs.regular, 35),
		tn:    newFace(fs.bold, 45),
	}
}

// cardField is one labelled line of the card.
type cardField struct {
	Label string
	Value string
}

func cardFields(a record.Assignment) []cardField {
	r := a.Record
	return []cardField{
		{"NOM DU CLIENT", strings.ToUpper(r.DisplayName())},
		{"CONTACTS TÉLÉPHONIQUES", r.DisplayContacts()},
		{"LOCALISATION", r.DisplayLocation()},
		{"PROVENANCE", strings.ToUpper(r.DisplayProvenance())},
		{"NUMÉRO DE TICKET", strings.ToUpper(r.DisplayTicket())},
		{"OFFRE SOUSCRITE", strings.ToUpper(r.DisplayPlan())},
		{"ÉQUIPE TECHNIQUE", strings.ToUpper(a.Team)},
		{"DATE DE TRANSMISSION", r.DisplayTransmissionDate()},
	}
}

// drawCard paints the installation card of one assignment.
func drawCard(a record.Assignment, date string, th Theme, faces cardFaces) image.Image {
	const w, h = float64(cardWidth), float64(cardHeight)
	dc := gg.NewContext(cardWidth, cardHeight)

	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, th.Background)
	grad.AddColorStop(1, th.Head)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	// Header
	dc.SetColor(th.Head)
	dc.DrawRectangle(0, 0, w, headerHeight)
	dc.Fill()
	dc.SetColor(th.Accent)
	dc.SetLineWidth(5)
	dc.DrawLine(0, headerHeight, w, headerHeight)
	dc.Stroke()
	dc.SetFontFace(faces.title)
	drawText(dc, cardTitle, marginX, 50)

	// TN box
	dc.SetColor(th.Accent)
	dc.DrawRectangle(750, 190, 400, 130)
	dc.Fill()
	dc.SetColor(th.TNText)
	dc.SetFontFace(faces.label)
	drawText(dc, "IDENTIFIANT TN", 770, 205)
	drawText(dc, "RDV : "+date, 770, 295)
	dc.SetFontFace(faces.tn)
	drawText(dc, fitString(dc, a.Record.DisplayTechnicalID(), 360), 770, 245)

	y := float64(fieldStartY)
	for _, f := range cardFields(a) {
		dc.SetFontFace(faces.label)
		dc.SetColor(th.Label)
		drawText(dc, f.Label, marginX, y)

		dc.SetFontFace(faces.value)
		dc.SetColor(th.Text)
		drawText(dc, fitString(dc, f.Value, fieldMaxX-marginX), marginX, y+40)

		dc.SetColor(th.Label)
		dc.SetLineWidth(1)
		dc.DrawLine(marginX, y+95, fieldMaxX, y+95)
		dc.Stroke()
		y += fieldStep
	}

	// Footer
	dc.SetColor(th.Accent)
	dc.DrawRectangle(0, h-footerHeight, w, footerHeight)
	dc.Fill()
	dc.SetColor(th.TNText)
	dc.SetFontFace(faces.label)
	drawText(dc, cardFooter, marginX, h-55)

	return dc.Image()
}

// drawText places s with its top-left corner at (x, y).
func drawText(dc *gg.Context, s string, x, y float64) {
	dc.DrawStringAnchored(s, x, y, 0, 1)
}

// fitString shortens s with an ellipsis until it fits in limit pixels.
func fitString(dc *gg.Context, s string, limit float64) string {
	if w, _ := dc.MeasureString(s); w <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		cand := string(runes) + "…"
		if w, _ := dc.MeasureString(cand); w <= limit {
			return cand
		}
	}
	return ""
}

func writeCard(path string, a record.Assignment, date string, th Theme, fs *fontSet) error {
	img := drawCard(a, date, th, fs.newFaces())
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to write card %s: %w", path, err)
	}
	return nil
}
