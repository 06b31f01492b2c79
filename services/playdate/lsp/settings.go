// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lsp

// Settings builders for lua-language-server tuned to the Playdate SDK.
//
// Playdate Lua is Lua 5.4 with `import` instead of `require`, the io/os/
// package builtins stripped out, and C-style compound assignment operators.
// Initialization options are sent once at server start; the workspace
// configuration is re-sent when library paths (CoreLibs, luacats stubs)
// become known.

// luaRuntimeSettings is the runtime block shared by both payloads.
func luaRuntimeSettings() map[string]any {
	return map[string]any{
		"version": "Lua 5.4",
		"special": map[string]any{
			"import": "require",
		},
		"builtin": map[string]any{
			"io":      "disable",
			"os":      "disable",
			"package": "disable",
		},
		"nonstandardSymbol": []string{
			"+=", "-=", "*=", "/=", "//=", "%=", "<<=", ">>=", "&=", "|=", "^=",
		},
	}
}

// InitializationOptions returns the settings sent with the LSP initialize
// request, before any workspace library paths are known.
func InitializationOptions() map[string]any {
	return map[string]any{
		"Lua": map[string]any{
			"runtime": luaRuntimeSettings(),
			"diagnostics": map[string]any{
				"globals": []string{"playdate", "import"},
				"severity": map[string]any{
					"duplicate-set-field": "Hint",
					"unknown-symbol":      "Warning",
				},
			},
			"workspace": map[string]any{
				"library":         []string{},
				"checkThirdParty": false,
			},
			"completion": map[string]any{
				"callSnippet": "Replace",
			},
		},
	}
}

// WorkspaceConfiguration returns the settings sent on
// workspace/didChangeConfiguration, with the resolved library paths
// (SDK CoreLibs and the luacats stubs) attached.
//
// duplicate-set-field is disabled outright here: the Playdate SDK
// redefines fields across CoreLibs files and the hint-level noise from
// initialization is not worth keeping once real libraries are loaded.
func WorkspaceConfiguration(libraryPaths []string) map[string]any {
	if libraryPaths == nil {
		libraryPaths = []string{}
	}
	return map[string]any{
		"Lua": map[string]any{
			"runtime": luaRuntimeSettings(),
			"diagnostics": map[string]any{
				"globals": []string{"playdate", "import"},
				"disable": []string{"duplicate-set-field"},
				"severity": map[string]any{
					"unknown-symbol": "Hint",
				},
			},
			"workspace": map[string]any{
				"library":         libraryPaths,
				"checkThirdParty": false,
			},
			"completion": map[string]any{
				"callSnippet": "Replace",
			},
		},
	}
}
