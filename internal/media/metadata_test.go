package media

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElijahAhianyo/yle-dl/internal/streams"
)

func metadataTestClip() Clip {
	helsinki := time.FixedZone("EEST", 3*60*60)
	return Clip{
		Webpage: "https://areena.yle.fi/1-1234567",
		Title:   "Test clip: S01E01-2018-07-01T00:00",
		Flavors: []StreamFlavor{
			{
				MediaType: MediaTypeVideo,
				Height:    mo.Some(1080),
				Width:     mo.Some(1920),
				Bitrate:   mo.Some(2808),
				Streams:   []streams.Stream{streams.NewHTTPStream("https://example.com/hi.mp4")},
			},
			{
				MediaType: MediaTypeVideo,
				Height:    mo.Some(360),
				Width:     mo.Some(640),
				Bitrate:   mo.Some(880),
				Streams:   []streams.Stream{streams.NewHTTPStream("https://example.com/lo.mp4")},
			},
		},
		DurationSeconds:     mo.Some(950),
		Region:              "Finland",
		PublishTimestamp:    mo.Some(time.Date(2018, 7, 1, 0, 0, 0, 0, helsinki)),
		ExpirationTimestamp: mo.Some(time.Date(2019, 1, 1, 0, 0, 0, 0, helsinki)),
		Subtitles: []Subtitle{
			{URL: "https://example.com/subs.fin.srt", Lang: "fin"},
		},
	}
}

func TestMetadataCompleteClip(t *testing.T) {
	meta := metadataTestClip().Metadata()

	assert.Equal(t, "https://areena.yle.fi/1-1234567", meta["webpage"])
	assert.Equal(t, "Test clip: S01E01-2018-07-01T00:00", meta["title"])
	assert.Equal(t, 950, meta["duration_seconds"])
	assert.Equal(t, "Finland", meta["region"])
	assert.Equal(t, "2018-07-01T00:00:00+03:00", meta["publish_timestamp"])
	assert.Equal(t, "2019-01-01T00:00:00+03:00", meta["expiration_timestamp"])

	subs, ok := meta["subtitles"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, subs, 1)
	assert.Equal(t, "fin", subs[0]["lang"])
}

func TestMetadataFlavorsSortedByBitrate(t *testing.T) {
	meta := metadataTestClip().Metadata()

	flavors, ok := meta["flavors"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, flavors, 2)
	assert.Equal(t, 880, flavors[0]["bitrate"])
	assert.Equal(t, 2808, flavors[1]["bitrate"])
	assert.Equal(t, []string{"wget"}, flavors[0]["backends"])
}

func TestMetadataOmitsAbsentKeys(t *testing.T) {
	clip := Clip{
		Webpage: "https://areena.yle.fi/1-1234567",
		Flavors: []StreamFlavor{{
			MediaType: MediaTypeVideo,
			Streams:   []streams.Stream{streams.NewHTTPStream("https://example.com/a.mp4")},
		}},
	}
	meta := clip.Metadata()

	for _, key := range []string{"title", "duration_seconds", "region", "publish_timestamp", "expiration_timestamp"} {
		_, present := meta[key]
		assert.False(t, present, "key %q should be omitted", key)
	}
	// The subtitle list is always present, even when empty.
	assert.Contains(t, meta, "subtitles")

	flavors := meta["flavors"].([]map[string]any)
	require.Len(t, flavors, 1)
	for _, key := range []string{"height", "width", "bitrate", "hard_subtitle_language"} {
		_, present := flavors[0][key]
		assert.False(t, present, "flavor key %q should be omitted", key)
	}
}

func TestMetadataHardSubtitleLanguageIsNormalized(t *testing.T) {
	clip := metadataTestClip()
	clip.Flavors[0].HardSubtitle = mo.Some(Subtitle{Lang: "fi"})

	meta := clip.Metadata()
	flavors := meta["flavors"].([]map[string]any)
	assert.Equal(t, "fin", flavors[1]["hard_subtitle_language"])
}

func TestMetadataFailedClip(t *testing.T) {
	meta := NewFailedClip("https://areena.yle.fi/1-1234567", "Failed test clip").Metadata()

	flavors, ok := meta["flavors"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, flavors, 1)
	assert.Equal(t, map[string]any{"error": "Failed test clip"}, flavors[0])
	assert.Empty(t, meta["subtitles"])
}
