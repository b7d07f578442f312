package widget

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// EmbedQR renders a PNG QR code pointing at a domain's hosted widget
// page, for the dashboard's install tab.
func EmbedQR(widgetBaseURL, hostname string) ([]byte, error) {
	url := fmt.Sprintf("%s/widget/%s", widgetBaseURL, hostname)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode widget QR: %w", err)
	}
	return png, nil
}
