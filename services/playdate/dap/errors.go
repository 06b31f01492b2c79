// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dap

import "errors"

// Sentinel errors for debug-adapter resolution.
var (
	// ErrUnsupportedAdapter indicates the host asked for an adapter this
	// extension does not provide.
	ErrUnsupportedAdapter = errors.New("unsupported debug adapter name")

	// ErrInvalidRequest indicates a request kind other than launch or attach.
	ErrInvalidRequest = errors.New("invalid request type, expected 'launch' or 'attach'")

	// ErrMissingGamePath indicates a launch config with no game path.
	ErrMissingGamePath = errors.New("no gamePath specified in launch configuration")
)
