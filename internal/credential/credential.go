// Package credential turns a completed student profile into the scannable
// payload shown at campus gates.
package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload is what a guard's scanner decodes: just enough to look the
// student up at the gate.
type Payload struct {
	ID         int64  `json:"id"`
	RollNumber string `json:"rollNumber"`
}

const imageSize = 512

// Encode renders the payload as a QR PNG and returns it as a data URI,
// ready to be stored on the student record and displayed by the client.
func Encode(studentID int64, rollNumber string) (string, error) {
	raw, err := json.Marshal(Payload{ID: studentID, RollNumber: rollNumber})
	if err != nil {
		return "", fmt.Errorf("failed to marshal credential payload: %w", err)
	}

	png, err := qrcode.Encode(string(raw), qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode credential QR: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Decode parses the JSON payload carried inside a scanned QR code.
func Decode(data string) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("invalid credential payload: %w", err)
	}
	if p.ID == 0 || p.RollNumber == "" {
		return nil, fmt.Errorf("incomplete credential payload")
	}
	return &p, nil
}
