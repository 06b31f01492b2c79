// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package manifest parses and validates Playdate pdxinfo bundle manifests.
//
// The pdxinfo format is line-oriented `key=value` pairs with `#` comments:
//
//	name=My Game
//	author=Studio Name
//	bundleID=com.studio.mygame
//	version=1.0
//	buildNumber=42
//
// Unknown keys are preserved so newer SDK fields round-trip untouched.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/playdate-ext/pkg/validation"
)

// MaxManifestSize is the maximum pdxinfo size accepted (64KB).
// A pdxinfo is a handful of short lines; anything bigger is hostile input.
const MaxManifestSize = 64 * 1024

// =============================================================================
// Shared Validator Instance
// =============================================================================

// manifestValidate is the validator instance for manifest types.
// Initialized in init() with custom validators.
var manifestValidate *validator.Validate

func init() {
	manifestValidate = validator.New()

	_ = manifestValidate.RegisterValidation("bundleid", validateBundleID)
}

// validateBundleID adapts pkg/validation's reverse-DNS check to a
// go-playground validator tag.
func validateBundleID(fl validator.FieldLevel) bool {
	return validation.ValidateBundleID(fl.Field().String()) == nil
}

// =============================================================================
// MANIFEST
// =============================================================================

// Manifest is a parsed pdxinfo file.
//
// # Validation
//
// Uses go-playground/validator:
//   - Name: required
//   - BundleID: required, reverse-DNS form (custom "bundleid" tag)
//   - BuildNumber: optional, digits only
type Manifest struct {
	// Name is the game title shown on the launcher.
	Name string `json:"name" validate:"required"`

	// Author is the developer or studio name.
	Author string `json:"author,omitempty"`

	// Description is the launcher description text.
	Description string `json:"description,omitempty"`

	// BundleID uniquely identifies the game, reverse-DNS form.
	BundleID string `json:"bundleID" validate:"required,bundleid"`

	// Version is the human-readable version string.
	Version string `json:"version,omitempty"`

	// BuildNumber is a monotonically increasing integer, as a string
	// because pdxinfo is untyped.
	BuildNumber string `json:"buildNumber,omitempty" validate:"omitempty,number"`

	// ImagePath points to the launcher card images.
	ImagePath string `json:"imagePath,omitempty"`

	// LaunchSoundPath points to the launcher sound.
	LaunchSoundPath string `json:"launchSoundPath,omitempty"`

	// ContentWarning is the first content warning line.
	ContentWarning string `json:"contentWarning,omitempty"`

	// ContentWarning2 is the second content warning line.
	ContentWarning2 string `json:"contentWarning2,omitempty"`

	// Extra holds unknown keys in file order (key preserved verbatim).
	Extra map[string]string `json:"extra,omitempty"`
}

// ParseError is a positioned pdxinfo parse failure.
type ParseError struct {
	// Line is the 1-indexed line number.
	Line int

	// Text is the offending line.
	Text string

	// Reason describes what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("pdxinfo line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse reads a pdxinfo manifest.
//
// Blank lines and `#` comments are skipped. Every other line must be
// `key=value`; the first `=` splits, so values may contain `=`.
//
// Inputs:
//   - r: Manifest source (at most MaxManifestSize bytes are read)
//
// Outputs:
//   - *Manifest: Parsed manifest; nil on error
//   - error: *ParseError for malformed lines, or a read error
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(io.LimitReader(r, MaxManifestSize))

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: "expected key=value"}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: "empty key"}
		}

		switch key {
		case "name":
			m.Name = value
		case "author":
			m.Author = value
		case "description":
			m.Description = value
		case "bundleID":
			m.BundleID = value
		case "version":
			m.Version = value
		case "buildNumber":
			m.BuildNumber = value
		case "imagePath":
			m.ImagePath = value
		case "launchSoundPath":
			m.LaunchSoundPath = value
		case "contentWarning":
			m.ContentWarning = value
		case "contentWarning2":
			m.ContentWarning2 = value
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]string)
			}
			m.Extra[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading pdxinfo: %w", err)
	}

	return m, nil
}

// Validate checks the manifest against the pdxinfo rules.
//
// Outputs:
//   - error: Validator errors for missing name, malformed bundleID, or a
//     non-numeric buildNumber; nil when the manifest is well-formed
func (m *Manifest) Validate() error {
	if err := manifestValidate.Struct(m); err != nil {
		return fmt.Errorf("invalid pdxinfo: %w", err)
	}
	return nil
}

// Encode writes the manifest back out in pdxinfo form.
//
// Known keys are written in canonical order, then Extra keys sorted by name.
// Empty known fields are omitted.
func (m *Manifest) Encode(w io.Writer) error {
	write := func(key, value string) error {
		if value == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s=%s\n", key, value)
		return err
	}

	ordered := []struct{ key, value string }{
		{"name", m.Name},
		{"author", m.Author},
		{"description", m.Description},
		{"bundleID", m.BundleID},
		{"version", m.Version},
		{"buildNumber", m.BuildNumber},
		{"imagePath", m.ImagePath},
		{"launchSoundPath", m.LaunchSoundPath},
		{"contentWarning", m.ContentWarning},
		{"contentWarning2", m.ContentWarning2},
	}
	for _, kv := range ordered {
		if err := write(kv.key, kv.value); err != nil {
			return err
		}
	}

	for _, key := range sortedKeys(m.Extra) {
		if err := write(key, m.Extra[key]); err != nil {
			return err
		}
	}
	return nil
}

// sortedKeys returns map keys in sorted order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
