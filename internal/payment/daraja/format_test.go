package daraja

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Leading zero",
			input: "0712345678",
			want:  "254712345678",
		},
		{
			name:  "Already normalized",
			input: "254712345678",
			want:  "254712345678",
		},
		{
			name:  "International with plus",
			input: "+254712345678",
			want:  "254712345678",
		},
		{
			name:  "Bare subscriber number",
			input: "712345678",
			want:  "254712345678",
		},
		{
			name:  "Spaces and dashes",
			input: "0712-345 678",
			want:  "254712345678",
		},
		{
			name:  "Unrecognized passes through",
			input: "1712345678",
			want:  "1712345678",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"0712345678", "+254712345678", "712345678"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		twice := NormalizePhone(once)
		if once != twice {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestPassword(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	password, timestamp := Password("174379", "secretkey", at)

	if timestamp != "20250314092653" {
		t.Errorf("timestamp = %q, want %q", timestamp, "20250314092653")
	}

	decoded, err := base64.StdEncoding.DecodeString(password)
	if err != nil {
		t.Fatalf("password is not valid base64: %v", err)
	}
	if string(decoded) != "174379secretkey20250314092653" {
		t.Errorf("decoded password = %q, want shortcode+passkey+timestamp", string(decoded))
	}
}

func TestPasswordDeterministic(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	p1, t1 := Password("174379", "pk", at)
	p2, t2 := Password("174379", "pk", at)

	if p1 != p2 || t1 != t2 {
		t.Errorf("Password not deterministic for a fixed instant")
	}
}
