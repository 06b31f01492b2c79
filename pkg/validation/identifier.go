// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for values that end up in file paths,
// download URLs, or subprocess invocations. Using these validators prevents
// injection attacks (command injection, path traversal, URL smuggling).
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// bundleIDPattern matches Playdate bundle identifiers in reverse-DNS form.
// Allows: com.example.mygame, net.studio.game-title
// Each segment: starts with a letter, then letters/digits/hyphens.
var bundleIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*(\.[a-zA-Z][a-zA-Z0-9-]*)+$`)

// versionPattern matches dotted release versions as printed by `pdc --version`.
// Allows: 2.5.0, 3.0, 2.7.6
// Max 4 numeric segments; no leading "v".
var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){1,3}$`)

// ValidateBundleID validates a pdxinfo bundleID value.
//
// Valid bundle IDs:
//   - Reverse-DNS form with at least two segments (com.example.game)
//   - Segments start with a letter; letters, digits, hyphens allowed
//
// Returns an error if the bundle ID is invalid.
//
// Example:
//
//	if err := validation.ValidateBundleID(manifest.BundleID); err != nil {
//	    return fmt.Errorf("invalid manifest: %w", err)
//	}
func ValidateBundleID(id string) error {
	if id == "" {
		return fmt.Errorf("bundleID cannot be empty")
	}

	if !bundleIDPattern.MatchString(id) {
		return fmt.Errorf("invalid bundleID format: %q (must be reverse-DNS, e.g. com.example.mygame)", id)
	}

	return nil
}

// ValidateVersion validates a dotted SDK or compiler version string.
//
// The value is interpolated into download URLs and directory names, so
// only plain dotted numerics are accepted.
//
// Returns an error if the version is invalid.
func ValidateVersion(version string) error {
	if version == "" {
		return fmt.Errorf("version cannot be empty")
	}

	if !versionPattern.MatchString(version) {
		return fmt.Errorf("invalid version format: %q (must be dotted numerics like 2.5.0)", version)
	}

	return nil
}

// SanitizeVersion normalizes and validates a version string.
// Trims whitespace and a single leading "v" before validation.
//
// Use this on raw `pdc --version` output:
//
//	version, err := validation.SanitizeVersion(stdout)
//	if err != nil {
//	    return err
//	}
//	// version is safe to embed in URLs and paths
func SanitizeVersion(version string) (string, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if err := ValidateVersion(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateExtractPath verifies that an archive entry stays inside targetDir
// after joining. Rejects path traversal via ".." and absolute entries.
//
// Returns the cleaned absolute target path if safe.
//
// Example:
//
//	target, err := validation.ValidateExtractPath(destDir, header.Name)
//	if err != nil {
//	    return err  // hostile archive entry
//	}
func ValidateExtractPath(targetDir, entryName string) (string, error) {
	if entryName == "" {
		return "", fmt.Errorf("archive entry name cannot be empty")
	}
	if filepath.IsAbs(entryName) {
		return "", fmt.Errorf("absolute archive entry not allowed: %q", entryName)
	}

	target := filepath.Join(targetDir, entryName)
	cleanDir := filepath.Clean(targetDir)
	if target != cleanDir && !strings.HasPrefix(target, cleanDir+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes target directory: %q", entryName)
	}

	return target, nil
}
