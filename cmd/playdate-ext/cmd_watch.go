// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/playdate-ext/services/playdate/watch"
)

var watchGamePath string // --game override for the bundle to watch

func init() {
	watchCmd.Flags().StringVar(&watchGamePath, "game", "",
		"Built .pdx bundle to watch (default: game_path from config, else builds/Game.pdx)")
}

// runWatch watches the built bundle and logs rebuilds until interrupted.
func runWatch(cmd *cobra.Command, args []string) error {
	bundlePath := watchGamePath
	if bundlePath == "" {
		bundlePath = config.GamePath
	}
	if bundlePath == "" {
		bundlePath = "builds/Game.pdx"
	}

	watcher, err := watch.NewBundleWatcher(bundlePath,
		func(rebuild watch.Rebuild) {
			logger.Info("bundle rebuilt",
				"bundle", rebuild.BundlePath,
				"files", len(rebuild.Paths),
			)
		},
		watch.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", watcher.BundlePath())

	<-ctx.Done()
	return nil
}
