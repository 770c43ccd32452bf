package qr

import qrcode "github.com/skip2/go-qrcode"

const imageSize = 256

// Encoder は支払い案内テキストをQRコードPNGにする。
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(text string) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, imageSize)
}
