// Package subtitles selects sidecar subtitle tracks and persists them next
// to the video file. Subtitle failures are always isolated: they are logged
// and skipped, never escalated to the parent download.
package subtitles

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ElijahAhianyo/yle-dl/internal/filesystem"
	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/network"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Downloader fetches subtitle files. The fetch function is injectable for
// tests.
type Downloader struct {
	fetch func(ctx context.Context, url string) ([]byte, error)
}

// NewDownloader builds a Downloader backed by the shared HTTP client.
func NewDownloader() *Downloader {
	return &Downloader{fetch: network.FetchBytes}
}

// NewDownloaderWithFetch builds a Downloader with a custom fetch function.
func NewDownloaderWithFetch(fetch func(ctx context.Context, url string) ([]byte, error)) *Downloader {
	return &Downloader{fetch: fetch}
}

// SelectAndDownload filters the subtitles and saves the matches to disk,
// returning the paths of the files written (or already present).
func (d *Downloader) SelectAndDownload(ctx context.Context, subs []media.Subtitle, videoFileName string, f filters.StreamFilters) []string {
	return d.Download(ctx, d.Select(subs, f), videoFileName)
}

// Select returns the subtitle tracks matching the language rule. Hard
// subtitles make sidecar files redundant, so a hard-subtitle request selects
// nothing. Unless the rule is the wildcard "all", at most the first match is
// kept.
func (d *Downloader) Select(subs []media.Subtitle, f filters.StreamFilters) []media.Subtitle {
	if f.HardSubsRequested() {
		return nil
	}

	var selected []media.Subtitle
	for _, sub := range subs {
		if sub.URL == "" {
			continue
		}
		if f.SubLang == "all" || f.SubLangMatches(sub.Lang, "") {
			selected = append(selected, sub)
		}
	}

	if len(selected) > 0 && f.SubLang != "all" {
		selected = selected[:1]
	}
	return selected
}

// Download fetches each subtitle into a .<lang>.srt sidecar next to the
// video file. A sidecar that already exists is skipped silently, which makes
// the operation idempotent.
func (d *Downloader) Download(ctx context.Context, subs []media.Subtitle, videoFileName string) []string {
	fs := filesystem.API()
	basename := strings.TrimSuffix(videoFileName, filepath.Ext(videoFileName))

	var saved []string
	for _, sub := range subs {
		filename := fmt.Sprintf("%s.%s.srt", basename, sub.Lang)

		if exists, _ := fs.Exists(filename); exists {
			log.Debugf("subtitle file %s already exists, skipping", filename)
			continue
		}

		content, err := d.fetch(ctx, sub.URL)
		if err != nil {
			log.Errorf("failed to download subtitles at %s: %v", sub.URL, err)
			continue
		}
		if err := fs.WriteFile(filename, content, 0o644); err != nil {
			log.Errorf("failed to write subtitles to %s: %v", filename, err)
			continue
		}
		if err := addBOM(filename); err != nil {
			log.Errorf("failed to add BOM to %s: %v", filename, err)
			continue
		}

		log.Infof("Subtitles saved to %s", filename)
		saved = append(saved, filename)
	}
	return saved
}

// addBOM prepends the UTF-8 byte-order mark when the file does not already
// start with one. The content is assumed, but never verified, to be UTF-8.
func addBOM(filename string) error {
	fs := filesystem.API()

	content, err := fs.ReadFile(filename)
	if err != nil {
		return err
	}
	if bytes.HasPrefix(content, utf8BOM) {
		return nil
	}
	return fs.WriteFile(filename, append(append([]byte(nil), utf8BOM...), content...), 0o644)
}
