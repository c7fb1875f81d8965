package streams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamBackendBindings(t *testing.T) {
	tests := []struct {
		name    string
		stream  Stream
		backend string
	}{
		{"kaltura hls uses ffmpeg", NewKalturaHLSStream("1_abc", "1_def", "applehttp", ".mp4"), "ffmpeg"},
		{"kaltura progressive uses wget", NewKalturaWgetStream("1_abc", "1_def", "url", ".mp4"), "wget"},
		{"hds uses youtube-dl", NewAreenaHDSStream("https://example.com/manifest.f4m", 880), "youtubedl"},
		{"http uses wget", NewHTTPStream("https://example.com/a.mp4"), "wget"},
		{"live tv uses ffmpeg", NewLiveTVStream("https://example.com/live.m3u8"), "ffmpeg"},
		{"live audio uses ffmpeg", NewLiveAudioStream("https://example.com/radio.m3u8"), "ffmpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.stream.IsValid())
			dl, ok := tt.stream.Downloader()
			require.True(t, ok)
			assert.Equal(t, tt.backend, dl.Name())
		})
	}
}

func TestKalturaManifestURL(t *testing.T) {
	s := NewKalturaHLSStream("1_abc", "1_def", "applehttp", ".mp4")

	url := s.ToURL()
	assert.Contains(t, url, "cdnapisec.kaltura.com")
	assert.Contains(t, url, "/entryId/1_abc/")
	assert.Contains(t, url, "/flavorId/1_def/")
	assert.Contains(t, url, "/format/applehttp/")
}

func TestInvalidStream(t *testing.T) {
	s := NewInvalidStream("Unknown stream flavor")

	assert.False(t, s.IsValid())
	assert.Equal(t, "Unknown stream flavor", s.ErrorMessage())
	_, ok := s.Downloader()
	assert.False(t, ok)
	assert.Equal(t, "", s.ToURL())
}

func TestBackendNotEnabledStream(t *testing.T) {
	s := NewBackendNotEnabledStream([]string{"wget", "ffmpeg"})

	assert.False(t, s.IsValid())
	assert.Equal(t, "Required backend not enabled. Try: --backend wget,ffmpeg", s.ErrorMessage())
	assert.Equal(t, []string{"wget", "ffmpeg"}, s.SupportedBackends)
}

func TestHTTPStreamExtension(t *testing.T) {
	tests := []struct {
		url string
		ext string
	}{
		{"https://example.com/video.mkv", ".mkv"},
		{"https://example.com/video.mp4?token=abc", ".mp4"},
		{"https://example.com/video", ".mp4"},
	}

	for _, tt := range tests {
		dl, ok := NewHTTPStream(tt.url).Downloader()
		require.True(t, ok)
		assert.Equal(t, tt.ext, dl.FileExtension().Ext, tt.url)
	}
}
