package lsp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatestRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/LuaLS/lua-language-server/releases/latest" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/vnd.github+json" {
			t.Errorf("Accept = %q", accept)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"tag_name": "3.13.5",
			"assets": [
				{"name": "lua-language-server-3.13.5-linux-x64.tar.gz",
				 "browser_download_url": "https://example.com/a.tar.gz"}
			]
		}`))
	}))
	defer server.Close()

	client := NewReleaseClient(WithAPIBaseURL(server.URL))
	release, err := client.LatestRelease(context.Background(), "LuaLS/lua-language-server")
	if err != nil {
		t.Fatalf("LatestRelease error = %v", err)
	}
	if release.TagName != "3.13.5" {
		t.Errorf("TagName = %q", release.TagName)
	}
	if len(release.Assets) != 1 || release.Assets[0].Name != "lua-language-server-3.13.5-linux-x64.tar.gz" {
		t.Errorf("unexpected assets: %+v", release.Assets)
	}
}

func TestLatestRelease_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewReleaseClient(WithAPIBaseURL(server.URL))
	if _, err := client.LatestRelease(context.Background(), "nobody/nothing"); err == nil {
		t.Error("LatestRelease succeeded on 404")
	}
}

func TestLatestRelease_NoAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "1.0.0", "assets": []}`))
	}))
	defer server.Close()

	client := NewReleaseClient(WithAPIBaseURL(server.URL))
	_, err := client.LatestRelease(context.Background(), "some/repo")
	if !errors.Is(err, ErrNoAssets) {
		t.Errorf("error = %v, want ErrNoAssets", err)
	}
}

func TestLatestRelease_BadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewReleaseClient(WithAPIBaseURL(server.URL))
	if _, err := client.LatestRelease(context.Background(), "some/repo"); err == nil {
		t.Error("LatestRelease accepted malformed JSON")
	}
}
