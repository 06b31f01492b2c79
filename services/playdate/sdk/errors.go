// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sdk

import "errors"

// Sentinel errors for SDK discovery.
var (
	// ErrNoHome is returned when neither PLAYDATE_SDK_PATH nor a home
	// directory is available to derive a default SDK location from.
	ErrNoHome = errors.New("no PLAYDATE_SDK_PATH and no home directory in environment")

	// ErrPdcNotFound is returned when the pdc compiler is not on PATH.
	ErrPdcNotFound = errors.New("pdc command not found in PATH")
)
