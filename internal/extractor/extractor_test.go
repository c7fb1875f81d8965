package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/streams"
)

func TestNewDispatch(t *testing.T) {
	f := filters.Default(nil)

	tests := []struct {
		url     string
		merging bool
		nilEx   bool
	}{
		{url: "https://areena.yle.fi/1-1234567"},
		{url: "https://arenan.yle.fi/1-1234567"},
		{url: "https://yle.fi/aihe/artikkeli/2010/01/01/something"},
		{url: "https://areena.yle.fi/26-12345"},
		{url: "https://svenska.yle.fi/artikel/2017/01/01/nagonting"},
		{url: "https://areena.yle.fi/radio/suorat/yle-puhe"},
		{url: "https://areena.yle.fi/tv/suorat/yle-tv1", merging: true},
		{url: "https://yle.fi/uutiset/3-10000000"},
		{url: "https://example.com/video", nilEx: true},
		{url: "ftp://areena.yle.fi/1-1", nilEx: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ex := New(tt.url, f)
			if tt.nilEx {
				assert.Nil(t, ex)
				return
			}
			require.NotNil(t, ex)
			_, isMerging := ex.(*MergingExtractor)
			assert.Equal(t, tt.merging, isMerging)
		})
	}
}

type fakeExtractor struct {
	playlist []string
	clip     media.Clip
}

func (f *fakeExtractor) Playlist(context.Context, string) []string { return f.playlist }

func (f *fakeExtractor) ExtractClip(context.Context, string) media.Clip { return f.clip }

func validClip(url string) media.Clip {
	return media.Clip{
		Webpage: url,
		Flavors: []media.StreamFlavor{{
			MediaType: media.MediaTypeVideo,
			Streams:   []streams.Stream{streams.NewHTTPStream(url + "/media.mp4")},
		}},
	}
}

func TestExtractLatestOnly(t *testing.T) {
	ex := &fakeExtractor{
		playlist: []string{"https://a.example/1", "https://a.example/2"},
		clip:     validClip("https://a.example"),
	}

	all := Extract(context.Background(), ex, "https://a.example", false)
	latest := Extract(context.Background(), ex, "https://a.example", true)

	assert.Len(t, all, 2)
	assert.Len(t, latest, 1)
}

func TestMergingExtractorCombinesFlavors(t *testing.T) {
	a := &fakeExtractor{playlist: []string{"https://a.example/1"}, clip: validClip("https://a.example/1")}
	b := &fakeExtractor{playlist: []string{"https://a.example/1"}, clip: validClip("https://a.example/1")}
	m := NewMerging(a, b)

	playlist := m.Playlist(context.Background(), "https://a.example/1")
	assert.Equal(t, []string{"https://a.example/1"}, playlist)

	clip := m.ExtractClip(context.Background(), "https://a.example/1")
	assert.Len(t, clip.Flavors, 2)
}

func TestMergingExtractorSkipsFailures(t *testing.T) {
	failed := &fakeExtractor{clip: media.NewFailedClip("https://a.example/1", "boom")}
	ok := &fakeExtractor{clip: validClip("https://a.example/1")}
	m := NewMerging(failed, ok)

	clip := m.ExtractClip(context.Background(), "https://a.example/1")

	require.Len(t, clip.Flavors, 1)
	assert.False(t, clip.Flavors[0].Failed())
}

func TestMergingExtractorAllFailed(t *testing.T) {
	failed := &fakeExtractor{clip: media.NewFailedClip("https://a.example/1", "boom")}
	m := NewMerging(failed)

	clip := m.ExtractClip(context.Background(), "https://a.example/1")

	require.Len(t, clip.Flavors, 1)
	assert.True(t, clip.Flavors[0].Failed())
}

func TestProgramIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://areena.yle.fi/1-1234567", "1-1234567"},
		{"https://areena.yle.fi/1-1234567?autoplay=true", "1-1234567"},
		{"https://areena.yle.fi/tv/ohjelmat/30-123?play=yle-abc", "yle-abc"},
		{"https://areena.yle.fi/tv/ohjelmat/30-123", "30-123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, programIDFromURL(tt.url), tt.url)
	}
}
