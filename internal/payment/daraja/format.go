package daraja

import (
	"encoding/base64"
	"strings"
	"time"
)

const timestampLayout = "20060102150405"

// NormalizePhone converts a Kenyan phone number to the 254XXXXXXXXX form the
// Daraja API requires. Pure string transformation; idempotent on already
// normalized numbers.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "0"):
		return "254" + digits[1:]
	case strings.HasPrefix(digits, "254"):
		return digits
	case len(digits) == 9 && strings.HasPrefix(digits, "7"):
		return "254" + digits
	default:
		return digits
	}
}

// Password builds the STK password for the given instant. The returned
// timestamp is the exact one encoded into the password and must be sent with
// it in the same request.
func Password(shortCode, passkey string, t time.Time) (password, timestamp string) {
	timestamp = t.Format(timestampLayout)
	password = base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
	return password, timestamp
}
