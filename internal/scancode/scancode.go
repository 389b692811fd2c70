// Package scancode encodes arbitrary strings into inline scannable-code
// images (QR) delivered as data URIs.
package scancode

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultData is encoded when the caller supplies nothing.
const DefaultData = "https://github.com/starford/fehu"

const pngPrefix = "data:image/png;base64,"

// Encoder turns a string into an inline image payload.
type Encoder interface {
	// Encode returns a data URI for the given string. Empty input encodes
	// DefaultData instead of failing.
	Encode(data string) (string, error)
}

// QR is the production Encoder backed by a QR code generator.
type QR struct {
	// Size is the image edge length in pixels. Zero means 256.
	Size int
}

// Encode implements Encoder.
func (q *QR) Encode(data string) (string, error) {
	if data == "" {
		data = DefaultData
	}
	size := q.Size
	if size == 0 {
		size = 256
	}
	png, err := qrcode.Encode(data, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("scancode: encode: %w", err)
	}
	return pngPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// DecodeDataURI splits a PNG data URI into raw image bytes. The render
// engine uses this when embedding Image nodes.
func DecodeDataURI(uri string) ([]byte, error) {
	raw, ok := strings.CutPrefix(uri, pngPrefix)
	if !ok {
		return nil, fmt.Errorf("scancode: not a png data uri")
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("scancode: decode data uri: %w", err)
	}
	return data, nil
}
