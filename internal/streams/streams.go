// Package streams models the concrete delivery mechanisms a flavor can be
// fetched through. Each variant either binds to exactly one download backend
// or reports why it cannot be used. The set of variants is closed: the
// selection and orchestration code treats them uniformly through the Stream
// interface and never type-switches on a concrete variant.
package streams

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ElijahAhianyo/yle-dl/internal/backends"
)

// Stream is one candidate way to fetch a flavor's bytes.
type Stream interface {
	// IsValid reports whether the stream can produce a Downloader.
	IsValid() bool
	// ErrorMessage explains why an invalid stream cannot be used.
	ErrorMessage() string
	// Downloader binds the stream to its backend. ok is false for invalid
	// streams.
	Downloader() (backends.Downloader, bool)
	// ToURL is the raw media URL, for --showurl.
	ToURL() string
}

// valid is embedded by every usable variant.
type valid struct{}

func (valid) IsValid() bool        { return true }
func (valid) ErrorMessage() string { return "" }

// KalturaHLSStream is an adaptive HLS rendition served by the Kaltura CDN,
// downloaded with ffmpeg.
type KalturaHLSStream struct {
	valid
	manifestURL string
	ext         string
}

// NewKalturaHLSStream builds the playManifest URL for one flavor rendition.
func NewKalturaHLSStream(entryID, flavorID, streamFormat, ext string) KalturaHLSStream {
	return KalturaHLSStream{
		manifestURL: kalturaManifestURL(entryID, flavorID, streamFormat, ext),
		ext:         ext,
	}
}

func (s KalturaHLSStream) Downloader() (backends.Downloader, bool) {
	return backends.NewFfmpeg(s.manifestURL, backends.MandatoryExt(s.ext)), true
}

func (s KalturaHLSStream) ToURL() string { return s.manifestURL }

// KalturaWgetStream is a non-adaptive progressive rendition of the same
// encoding, fetched as a single HTTP file.
type KalturaWgetStream struct {
	valid
	mediaURL string
	ext      string
}

func NewKalturaWgetStream(entryID, flavorID, streamFormat, ext string) KalturaWgetStream {
	return KalturaWgetStream{
		mediaURL: kalturaManifestURL(entryID, flavorID, streamFormat, ext),
		ext:      ext,
	}
}

func (s KalturaWgetStream) Downloader() (backends.Downloader, bool) {
	return backends.NewWget(s.mediaURL, backends.MandatoryExt(s.ext)), true
}

func (s KalturaWgetStream) ToURL() string { return s.mediaURL }

// AreenaHDSStream is a legacy Adobe HDS manifest, handled by youtube-dl.
type AreenaHDSStream struct {
	valid
	manifestURL string
	bitrate     int
}

func NewAreenaHDSStream(manifestURL string, bitrate int) AreenaHDSStream {
	return AreenaHDSStream{manifestURL: manifestURL, bitrate: bitrate}
}

func (s AreenaHDSStream) Downloader() (backends.Downloader, bool) {
	return backends.NewYoutubeDL(s.manifestURL, s.bitrate), true
}

func (s AreenaHDSStream) ToURL() string { return s.manifestURL }

// HTTPStream is a plain downloadable file, typically from the archive
// services.
type HTTPStream struct {
	valid
	url string
}

func NewHTTPStream(url string) HTTPStream {
	return HTTPStream{url: url}
}

func (s HTTPStream) Downloader() (backends.Downloader, bool) {
	return backends.NewWget(s.url, backends.PreferredExt(extensionFromURL(s.url))), true
}

func (s HTTPStream) ToURL() string { return s.url }

// LiveTVStream is a live HLS channel feed.
type LiveTVStream struct {
	valid
	hlsURL string
}

func NewLiveTVStream(hlsURL string) LiveTVStream {
	return LiveTVStream{hlsURL: hlsURL}
}

func (s LiveTVStream) Downloader() (backends.Downloader, bool) {
	return backends.NewFfmpeg(s.hlsURL, backends.MandatoryExt(".mp4")), true
}

func (s LiveTVStream) ToURL() string { return s.hlsURL }

// LiveAudioStream is a live radio HLS feed, saved as audio only.
type LiveAudioStream struct {
	valid
	hlsURL string
}

func NewLiveAudioStream(hlsURL string) LiveAudioStream {
	return LiveAudioStream{hlsURL: hlsURL}
}

func (s LiveAudioStream) Downloader() (backends.Downloader, bool) {
	return backends.NewFfmpeg(s.hlsURL, backends.MandatoryExt(".mp3")), true
}

func (s LiveAudioStream) ToURL() string { return s.hlsURL }

// InvalidStream carries an error instead of a backend binding. When the
// failure is "no enabled backend", SupportedBackends names the backends that
// would have worked.
type InvalidStream struct {
	Reason            string
	SupportedBackends []string
}

func NewInvalidStream(reason string, supportedBackends ...string) InvalidStream {
	return InvalidStream{Reason: reason, SupportedBackends: supportedBackends}
}

// NewBackendNotEnabledStream is the synthetic stream returned when streams
// exist but none of them matched an enabled backend.
func NewBackendNotEnabledStream(supportedBackends []string) InvalidStream {
	return InvalidStream{
		Reason: fmt.Sprintf("Required backend not enabled. Try: --backend %s",
			strings.Join(supportedBackends, ",")),
		SupportedBackends: supportedBackends,
	}
}

func (s InvalidStream) IsValid() bool        { return false }
func (s InvalidStream) ErrorMessage() string { return s.Reason }

func (s InvalidStream) Downloader() (backends.Downloader, bool) { return nil, false }

func (s InvalidStream) ToURL() string { return "" }

func kalturaManifestURL(entryID, flavorID, streamFormat, ext string) string {
	return fmt.Sprintf(
		"https://cdnapisec.kaltura.com/p/1955031/sp/195503100/playManifest"+
			"/entryId/%s/flavorId/%s/format/%s/protocol/https/a%s?uiConfId=37558971",
		url.PathEscape(entryID), url.PathEscape(flavorID),
		url.PathEscape(streamFormat), ext)
}

func extensionFromURL(mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return ".mp4"
	}
	if ext := path.Ext(u.Path); ext != "" {
		return ext
	}
	return ".mp4"
}
