package render

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the PNG edge in pixels: 33 modules at ten pixels each.
const qrSize = 330

// writeQR encodes url at quartile recovery.
func writeQR(path, url string) error {
	if err := qrcode.WriteFile(url, qrcode.High, qrSize, path); err != nil {
		return fmt.Errorf("failed to write QR code %s: %w", path, err)
	}
	return nil
}
