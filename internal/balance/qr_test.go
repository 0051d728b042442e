package balance

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestExtractCardNumber(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
		err     error
	}{
		{
			name:    "plain query",
			payload: "https://park.example/card?f_persAcc=1234567890",
			want:    "1234567890",
		},
		{
			name:    "parameter mid-query",
			payload: "https://park.example/card?x=1&f_persAcc=42&y=2",
			want:    "42",
		},
		{
			name:    "missing parameter",
			payload: "https://park.example/card?account=123",
			err:     ErrNoCardNumber,
		},
		{
			name:    "non-numeric value",
			payload: "f_persAcc=abc",
			err:     ErrNoCardNumber,
		},
		{
			name:    "empty payload",
			payload: "",
			err:     ErrNoCardNumber,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractCardNumber(tc.payload)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("err = %v, want %v", err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("card = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScanRejectsGarbage(t *testing.T) {
	if _, err := Scan([]byte("not an image at all")); err == nil {
		t.Error("non-image bytes must fail")
	}
}

func TestScanImageWithoutQR(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	if _, err := Scan(buf.Bytes()); err == nil {
		t.Error("a blank image must not yield a QR payload")
	}
}
