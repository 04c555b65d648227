package errors

import (
	"strings"
	"testing"
)

func TestValidateDiagramName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple name", "Order processing", false},
		{"valid with unicode", "Zamówienie klienta", false},
		{"empty name", "", true},
		{"control character", "name\x01here", true},
		{"null byte", "name\x00", true},
		{"too long", strings.Repeat("a", 257), true},
		{"max length", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagramName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiagramName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSwimlaneName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Backoffice", false},
		{"empty", "", true},
		{"control character", "lane\x02", true},
		{"too long", strings.Repeat("x", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSwimlaneName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSwimlaneName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty label allowed", "", false},
		{"multi-line label", "check stock\nnotify customer", false},
		{"tab allowed", "a\tb", false},
		{"null byte", "bad\x00label", true},
		{"other control character", "bad\x07label", true},
		{"too long", strings.Repeat("a", 513), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEAID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid element id", "EAID_2A5F1C0B_9D3E_5A44_8B1F_0C6E2D7A9B31", false},
		{"valid package id", "EAPK_2A5F1C0B_9D3E_5A44_8B1F_0C6E2D7A9B31", false},
		{"empty", "", true},
		{"wrong prefix", "EAXX_2A5F1C0B_9D3E_5A44_8B1F_0C6E2D7A9B31", true},
		{"lowercase hex", "EAID_2a5f1c0b_9d3e_5a44_8b1f_0c6e2d7a9b31", true},
		{"dashes instead of underscores", "EAID_2A5F1C0B-9D3E-5A44-8B1F-0C6E2D7A9B31", true},
		{"truncated", "EAID_2A5F1C0B_9D3E_5A44_8B1F", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEAID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEAID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://localhost:8080/convert", false},
		{"https", "https://example.com", false},
		{"redis", "redis://localhost:6379/0", false},
		{"rediss", "rediss://cache.internal:6380", false},
		{"empty", "", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no scheme", "localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
