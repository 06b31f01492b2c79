// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lsp

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/AleutianAI/playdate-ext/pkg/logging"
	"github.com/AleutianAI/playdate-ext/pkg/validation"
)

// ArchiveFormat identifies how a downloaded file is unpacked.
type ArchiveFormat int

const (
	// FormatGzipTar is a .tar.gz archive.
	FormatGzipTar ArchiveFormat = iota

	// FormatZip is a .zip archive.
	FormatZip
)

// Downloader fetches and unpacks release archives.
//
// Thread Safety: Downloader is safe for concurrent use.
type Downloader struct {
	client *http.Client
	logger *logging.Logger
}

// NewDownloader creates a Downloader.
//
// Inputs:
//   - client: HTTP client; nil gets a client with a 5-minute timeout
//   - logger: Logger; nil falls back to the package default
func NewDownloader(client *http.Client, logger *logging.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Downloader{client: client, logger: logger}
}

// DownloadAndExtract fetches url and unpacks it into targetDir.
//
// The target directory is created if needed. Archive entries are checked
// against path traversal before anything touches the filesystem.
//
// Inputs:
//   - ctx: Cancellation context
//   - url: Archive location
//   - targetDir: Extraction root
//   - format: FormatGzipTar or FormatZip
//
// Outputs:
//   - error: HTTP failure, non-200 status, or extraction failure
func (d *Downloader) DownloadAndExtract(ctx context.Context, url, targetDir string, format ArchiveFormat) error {
	d.logger.Info("downloading archive", "url", url, "target", targetDir)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			d.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed with status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create target directory %s: %w", targetDir, err)
	}

	switch format {
	case FormatZip:
		return d.extractZip(resp.Body, targetDir)
	default:
		return d.extractTarGz(resp.Body, targetDir)
	}
}

// extractTarGz unpacks a gzipped tarball into targetDir.
func (d *Downloader) extractTarGz(gzipStream io.Reader, targetDir string) error {
	uncompressedStream, err := gzip.NewReader(gzipStream)
	if err != nil {
		return fmt.Errorf("gzip.NewReader failed: %w", err)
	}
	defer func() {
		if err := uncompressedStream.Close(); err != nil {
			d.logger.Error("failed to close gzip reader", "error", err)
		}
	}()

	tarReader := tar.NewReader(uncompressedStream)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		// GitHub source tarballs carry metadata entries
		if header.Name == "pax_global_header" {
			continue
		}

		targetPath, err := validation.ValidateExtractPath(targetDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeExtractedFile(targetPath, tarReader, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
}

// extractZip buffers the body to a temp file (zip needs random access)
// and unpacks it into targetDir.
func (d *Downloader) extractZip(body io.Reader, targetDir string) error {
	tmp, err := os.CreateTemp("", "playdate-ext-*.zip")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil {
			d.logger.Error("failed to remove temp archive", "path", tmp.Name(), "error", err)
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return fmt.Errorf("buffering zip archive: %w", err)
	}

	reader, err := zip.OpenReader(tmp.Name())
	if err != nil {
		return fmt.Errorf("opening zip archive: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	for _, file := range reader.File {
		targetPath, err := validation.ValidateExtractPath(targetDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return err
			}
			continue
		}

		src, err := file.Open()
		if err != nil {
			return fmt.Errorf("opening zip entry %s: %w", file.Name, err)
		}
		err = writeExtractedFile(targetPath, src, file.Mode())
		if closeErr := src.Close(); closeErr != nil {
			d.logger.Error("failed to close zip entry", "name", file.Name, "error", closeErr)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeExtractedFile writes one archive entry to disk with its mode.
func writeExtractedFile(targetPath string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}

	outFile, err := os.Create(targetPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, src); err != nil {
		_ = outFile.Close()
		return err
	}
	if err := outFile.Close(); err != nil {
		return err
	}
	// Preserve executable bits; world-writable modes are masked off
	return os.Chmod(targetPath, mode&0755)
}
