package render

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimetres, A4 portrait.
const (
	pageMargin   = 20.0
	titleY       = 22.0
	logoSize     = 30.0
	cardsPerPage = 2
)

// writePDF lays the cards out two per page, in the order given.
func writePDF(path, date string, cards []string, logo string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()

	boxW := pageW - 2*pageMargin
	boxH := (pageH - 4*pageMargin) / 2
	slots := []float64{pageH/2 + 5, pageMargin}

	hasLogo := logo != ""
	if hasLogo {
		if _, err := os.Stat(logo); err != nil {
			hasLogo = false
		}
	}

	png := fpdf.ImageOptions{ImageType: "PNG"}
	for i := 0; i < len(cards); i += cardsPerPage {
		pdf.AddPage()
		if hasLogo {
			pdf.ImageOptions(logo, pageMargin, 0, logoSize, logoSize, false, png, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetXY(0, titleY-6)
		pdf.CellFormat(pageW, 8, tr("FICHES D'INSTALLATION DU "+date), "", 0, "C", false, 0, "")

		for slot := 0; slot < cardsPerPage && i+slot < len(cards); slot++ {
			// Cards keep their aspect ratio inside the slot, centred.
			w, h := fitBox(cardWidth, cardHeight, boxW, boxH)
			x := pageMargin + (boxW-w)/2
			top := pageH - slots[slot] - boxH
			y := top + (boxH-h)/2
			pdf.ImageOptions(cards[i+slot], x, y, w, h, false, png, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", path, err)
	}
	return nil
}

// fitBox scales a w×h image to fit inside boxW×boxH.
func fitBox(w, h int, boxW, boxH float64) (float64, float64) {
	scale := boxW / float64(w)
	if s := boxH / float64(h); s < scale {
		scale = s
	}
	return float64(w) * scale, float64(h) * scale
}
