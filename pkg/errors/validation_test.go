package errors

import (
	"math"
	"testing"
)

func TestValidateBundleFile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "sprite.svg", false},
		{"nested", "assets/icons.svg", false},
		{"dots in name", "icons..v2.svg", false},

		{"empty", "", true},
		{"absolute", "/tmp/sprite.svg", true},
		{"traversal", "../sprite.svg", true},
		{"traversal nested", "a/../../sprite.svg", true},
		{"backslash traversal", "a\\..\\sprite.svg", true},
		{"control char", "sprite\x01.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBundleFile(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBundleFile(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateBundleFile(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateBundleURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "./svg-bundle.svg", false},
		{"absolute path", "/static/sprite.svg", false},
		{"https", "https://cdn.example.com/sprite.svg", false},

		{"empty", "", true},
		{"fragment", "/sprite.svg#icon", true},
		{"whitespace", "/sprite .svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBundleURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBundleURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGap(t *testing.T) {
	tests := []struct {
		gap     float64
		wantErr bool
	}{
		{0, false},
		{1, false},
		{2.5, false},
		{-1, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}

	for _, tt := range tests {
		if err := ValidateGap(tt.gap); (err != nil) != tt.wantErr {
			t.Errorf("ValidateGap(%v) error = %v, wantErr %v", tt.gap, err, tt.wantErr)
		}
	}
}
