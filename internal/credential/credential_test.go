package credential

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestEncodeProducesPNGDataURI(t *testing.T) {
	uri, err := Encode(42, "CS2026001")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("expected data URI, got %q", uri[:min(len(uri), 40)])
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if !bytes.HasPrefix(raw, pngMagic) {
		t.Fatal("decoded payload is not a PNG")
	}
}

func TestEncodeIsDeterministicPerStudent(t *testing.T) {
	a, err := Encode(1, "CS2026001")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := Encode(1, "CS2026001")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if a != b {
		t.Fatal("same student must yield the same credential image")
	}

	other, err := Encode(2, "CS2026002")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if a == other {
		t.Fatal("different students must yield different credentials")
	}
}

func TestDecode(t *testing.T) {
	p, err := Decode(`{"id":42,"rollNumber":"CS2026001"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.ID != 42 || p.RollNumber != "CS2026001" {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"missing id", `{"rollNumber":"CS2026001"}`},
		{"missing roll", `{"id":42}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
