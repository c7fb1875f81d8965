// Package extractor resolves an Areena, Elävä Arkisto or Yle news page URL
// into clips with stream flavors. An extractor never downloads media; it only
// discovers what is available and hands the result to the selection core.
package extractor

import (
	"context"
	"regexp"

	"github.com/samber/lo"

	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
)

// ClipExtractor turns one source page URL into clips. Playlist expands a
// series page into its episode page URLs; a plain clip page expands to
// itself.
type ClipExtractor interface {
	Playlist(ctx context.Context, pageURL string) []string
	ExtractClip(ctx context.Context, clipURL string) media.Clip
}

var (
	elavaArkistoURL = regexp.MustCompile(`^https?://yle\.fi/aihe/`)
	arkistoClipURL  = regexp.MustCompile(`^https?://(areena|arenan)\.yle\.fi/26-`)
	arkivetURL      = regexp.MustCompile(`^https?://svenska\.yle\.fi/artikel/`)
	liveRadioURL    = regexp.MustCompile(`^https?://areena\.yle\.fi/radio/(ohjelmat|suorat)/[-a-zA-Z0-9]+`)
	liveTVURL       = regexp.MustCompile(`^https?://(areena|arenan)\.yle\.fi/tv/suorat/`)
	simulcastURL    = regexp.MustCompile(`^https?://(areena|arenan)\.yle\.fi/tv/ohjelmat/[-0-9]+\?play=yle-[-a-z0-9]+`)
	newsURL         = regexp.MustCompile(`^https?://yle\.fi/(uutiset|urheilu|saa)/`)
	areenaURL       = regexp.MustCompile(`^https?://((areena|arenan)\.yle\.fi|yle\.fi)/`)
)

// New picks the extractor for a URL, or nil when the URL does not belong to
// a supported service.
func New(pageURL string, f filters.StreamFilters) ClipExtractor {
	switch {
	case elavaArkistoURL.MatchString(pageURL) || arkistoClipURL.MatchString(pageURL):
		return NewElavaArkisto(f)
	case arkivetURL.MatchString(pageURL):
		return NewArkivet(f)
	case liveRadioURL.MatchString(pageURL):
		return NewLiveRadio(f)
	case liveTVURL.MatchString(pageURL):
		return NewMerging(NewLiveTV(f), NewSimulcast(f))
	case simulcastURL.MatchString(pageURL):
		return NewSimulcast(f)
	case newsURL.MatchString(pageURL):
		return NewNews(f)
	case areenaURL.MatchString(pageURL):
		return NewAreena(f)
	default:
		return nil
	}
}

// Extract runs the extractor over the page's playlist. latestOnly keeps only
// the newest episode of a series page.
func Extract(ctx context.Context, ex ClipExtractor, pageURL string, latestOnly bool) []media.Clip {
	playlist := ex.Playlist(ctx, pageURL)
	if latestOnly && len(playlist) > 1 {
		playlist = playlist[:1]
	}

	clips := make([]media.Clip, 0, len(playlist))
	for _, clipURL := range playlist {
		clips = append(clips, ex.ExtractClip(ctx, clipURL))
	}
	return clips
}

// MergingExtractor runs several extractors over the same page and merges the
// flavors they find, so the selection core can choose across delivery
// mechanisms.
type MergingExtractor struct {
	extractors []ClipExtractor
}

func NewMerging(extractors ...ClipExtractor) *MergingExtractor {
	return &MergingExtractor{extractors: extractors}
}

// Playlist is the order-preserving union of the sub-extractors' playlists.
func (m *MergingExtractor) Playlist(ctx context.Context, pageURL string) []string {
	var playlist []string
	for _, ex := range m.extractors {
		playlist = append(playlist, ex.Playlist(ctx, pageURL)...)
	}
	return lo.Uniq(playlist)
}

// ExtractClip concatenates the flavors of every successful sub-extraction
// onto the first successful clip. When every sub-extractor fails, the first
// failure is reported.
func (m *MergingExtractor) ExtractClip(ctx context.Context, clipURL string) media.Clip {
	clips := lo.Map(m.extractors, func(ex ClipExtractor, _ int) media.Clip {
		return ex.ExtractClip(ctx, clipURL)
	})

	ok := lo.Filter(clips, func(c media.Clip, _ int) bool { return !clipFailed(c) })
	if len(ok) == 0 {
		if len(clips) > 0 {
			return clips[0]
		}
		return media.NewFailedClip(clipURL, "No extractor could handle the page")
	}

	merged := ok[0]
	for _, c := range ok[1:] {
		merged.Flavors = append(merged.Flavors, c.Flavors...)
	}
	return merged
}

// clipFailed reports whether extraction produced only invalid streams.
func clipFailed(c media.Clip) bool {
	if len(c.Flavors) == 0 {
		return true
	}
	for _, fl := range c.Flavors {
		if !fl.Failed() {
			return false
		}
	}
	return true
}
