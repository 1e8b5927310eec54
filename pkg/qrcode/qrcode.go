// Package qrcode renders QR codes for UPI payment intents.
//
// The payments API returns a UPI intent string for peer-to-peer settlement;
// this package turns it into a scannable PNG, either as raw bytes or as a
// base64 data URI for direct embedding. Medium error correction balances data
// capacity with resilience to display and printing artifacts.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is a sensible pixel size for on-screen scanning.
const DefaultSize = 256

var (
	// ErrEmptyContent is returned when there is nothing to encode.
	ErrEmptyContent = errors.New("qr content is empty")
	// ErrInvalidSize is returned for non-positive pixel sizes.
	ErrInvalidSize = errors.New("qr size must be positive")
)

// Generate encodes content as a PNG QR code of size x size pixels.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// GenerateBase64Image encodes content as a PNG QR code and returns it as a
// data URI suitable for an <img> src attribute.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
