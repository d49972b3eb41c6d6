package service

import (
	qrcode "github.com/skip2/go-qrcode"
)

// KioskTokenQR encodes a school's kiosk token as a PNG so a new kiosk can be
// enrolled by scanning instead of typing the token.
func KioskTokenQR(token string) ([]byte, error) {
	return qrcode.Encode(token, qrcode.Medium, 256)
}
