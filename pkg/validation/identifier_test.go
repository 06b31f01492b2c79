package validation

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateBundleID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"typical", "com.example.mygame", false},
		{"hyphenated", "net.studio.game-title", false},
		{"two segments", "example.game", false},
		{"empty", "", true},
		{"single segment", "mygame", true},
		{"leading digit segment", "com.1example.game", true},
		{"trailing dot", "com.example.", true},
		{"shell metachars", "com.example;rm -rf", true},
		{"path traversal", "../../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBundleID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBundleID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{"three segment", "2.5.0", false},
		{"two segment", "3.0", false},
		{"four segment", "2.7.6.1", false},
		{"empty", "", true},
		{"single number", "2", true},
		{"leading v", "v2.5.0", true},
		{"url injection", "2.5.0/../..", true},
		{"letters", "2.5.0-beta", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVersion(tt.version)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVersion(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeVersion(t *testing.T) {
	got, err := SanitizeVersion("  v2.5.0\n")
	if err != nil {
		t.Fatalf("SanitizeVersion error = %v", err)
	}
	if got != "2.5.0" {
		t.Errorf("SanitizeVersion = %q, want %q", got, "2.5.0")
	}

	if _, err := SanitizeVersion("not a version"); err == nil {
		t.Error("SanitizeVersion accepted garbage input")
	}
}

func TestValidateExtractPath(t *testing.T) {
	dir := filepath.Join("tmp", "extract")

	target, err := ValidateExtractPath(dir, filepath.Join("library", "playdate.lua"))
	if err != nil {
		t.Fatalf("ValidateExtractPath error = %v", err)
	}
	if !strings.HasPrefix(target, filepath.Clean(dir)) {
		t.Errorf("target %q not under %q", target, dir)
	}

	hostile := []string{
		"",
		filepath.Join("..", "..", "etc", "passwd"),
		string(filepath.Separator) + filepath.Join("etc", "passwd"),
	}
	for _, entry := range hostile {
		if _, err := ValidateExtractPath(dir, entry); err == nil {
			t.Errorf("ValidateExtractPath(%q) accepted hostile entry", entry)
		}
	}
}
