// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultAPIBaseURL is the GitHub REST API root.
const defaultAPIBaseURL = "https://api.github.com"

// maxReleaseBodySize caps the release metadata response (1MB).
const maxReleaseBodySize = 1024 * 1024

// Release is the subset of GitHub release metadata the installer needs.
type Release struct {
	// TagName is the release tag, e.g. "3.13.5".
	TagName string `json:"tag_name"`

	// Assets are the downloadable files attached to the release.
	Assets []ReleaseAsset `json:"assets"`
}

// ReleaseAsset is one downloadable file on a release.
type ReleaseAsset struct {
	// Name is the asset filename.
	Name string `json:"name"`

	// DownloadURL is the direct download location.
	DownloadURL string `json:"browser_download_url"`
}

// ReleaseClient queries GitHub for the latest release of a repository.
//
// Thread Safety: ReleaseClient is safe for concurrent use.
type ReleaseClient struct {
	baseURL string
	client  *http.Client
}

// ReleaseClientOption configures a ReleaseClient.
type ReleaseClientOption func(*ReleaseClient)

// WithAPIBaseURL overrides the GitHub API root (tests).
func WithAPIBaseURL(url string) ReleaseClientOption {
	return func(c *ReleaseClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) ReleaseClientOption {
	return func(c *ReleaseClient) {
		if client != nil {
			c.client = client
		}
	}
}

// NewReleaseClient creates a ReleaseClient with a 30s request timeout.
func NewReleaseClient(opts ...ReleaseClientOption) *ReleaseClient {
	c := &ReleaseClient{
		baseURL: defaultAPIBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestRelease fetches the latest published release of owner/repo.
//
// The /releases/latest endpoint already excludes drafts and pre-releases;
// releases without assets are rejected because the installer has nothing
// to download from them.
//
// Inputs:
//   - ctx: Cancellation context
//   - repo: "owner/name" repository slug
//
// Outputs:
//   - *Release: Release metadata; nil on error
//   - error: HTTP failure, non-200 status, decode failure, or ErrNoAssets
func (c *ReleaseClient) LatestRelease(ctx context.Context, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching latest release for %s: %w", repo, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup for %s failed with status %d", repo, resp.StatusCode)
	}

	var release Release
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxReleaseBodySize))
	if err := decoder.Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release metadata: %w", err)
	}

	if len(release.Assets) == 0 {
		return nil, fmt.Errorf("%w: %s@%s", ErrNoAssets, repo, release.TagName)
	}

	return &release, nil
}
