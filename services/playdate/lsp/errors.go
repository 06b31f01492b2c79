// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lsp

import "errors"

// Sentinel errors for language-server installation.
var (
	// ErrUnsupportedServer indicates the host asked for a language server
	// this extension does not provide.
	ErrUnsupportedServer = errors.New("unsupported language server id")

	// ErrUnsupportedPlatform indicates no release asset exists for the
	// platform (32-bit x86).
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrNoAssets indicates the release carries no downloadable assets.
	ErrNoAssets = errors.New("release has no assets")

	// ErrAssetNotFound indicates no asset matched the expected name.
	ErrAssetNotFound = errors.New("no asset found matching expected name")
)
