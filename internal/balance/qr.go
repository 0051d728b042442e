// Package balance decodes card QR codes and looks balances up in the park
// payment API.
package balance

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"regexp"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoQR indicates the photo contained no readable QR code.
var ErrNoQR = errors.New("no QR code found")

// ErrNoCardNumber indicates the QR payload carried no card number.
var ErrNoCardNumber = errors.New("QR payload has no card number")

var cardNumberRe = regexp.MustCompile(`f_persAcc=(\d+)`)

// Scan decodes the first QR code found in an image.
func Scan(imageBytes []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize image: %w", err)
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrNoQR
	}
	return result.GetText(), nil
}

// ExtractCardNumber pulls the personal account number out of a decoded QR
// payload. The payment QR embeds it as an f_persAcc query parameter.
func ExtractCardNumber(qrText string) (string, error) {
	m := cardNumberRe.FindStringSubmatch(qrText)
	if m == nil {
		return "", ErrNoCardNumber
	}
	return m[1], nil
}
