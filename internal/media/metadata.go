package media

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/ElijahAhianyo/yle-dl/internal/filters"
)

// Metadata serializes the clip for --showmetadata. Keys whose value is
// absent are omitted entirely, never emitted as null. Flavors are listed in
// ascending bitrate order.
func (c Clip) Metadata() map[string]any {
	sorted := append([]StreamFlavor(nil), c.Flavors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bitrate.OrElse(0) < sorted[j].Bitrate.OrElse(0)
	})

	meta := map[string]any{
		"webpage": c.Webpage,
		"flavors": lo.Map(sorted, func(f StreamFlavor, _ int) map[string]any {
			return f.metadata()
		}),
		"subtitles": subtitleMetadata(c.Subtitles),
	}
	setIfNonEmpty(meta, "title", c.Title)
	setIfPresentInt(meta, "duration_seconds", c.DurationSeconds)
	setIfNonEmpty(meta, "region", c.Region)
	setIfPresentTime(meta, "publish_timestamp", c.PublishTimestamp)
	setIfPresentTime(meta, "expiration_timestamp", c.ExpirationTimestamp)
	return meta
}

func (f StreamFlavor) metadata() map[string]any {
	if f.Failed() {
		return map[string]any{"error": f.Streams[0].ErrorMessage()}
	}

	meta := map[string]any{}
	setIfNonEmpty(meta, "media_type", f.MediaType)
	setIfPresentInt(meta, "height", f.Height)
	setIfPresentInt(meta, "width", f.Width)
	setIfPresentInt(meta, "bitrate", f.Bitrate)
	if hs, ok := f.HardSubtitle.Get(); ok {
		meta["hard_subtitle_language"] = filters.NormalizeLanguage(hs.Lang, "")
	}
	meta["backends"] = f.BackendNames()
	return meta
}

func subtitleMetadata(subs []Subtitle) []map[string]any {
	out := make([]map[string]any, 0, len(subs))
	for _, s := range subs {
		out = append(out, map[string]any{"url": s.URL, "lang": s.Lang})
	}
	return out
}

func setIfNonEmpty(meta map[string]any, key, value string) {
	if value != "" {
		meta[key] = value
	}
}

func setIfPresentInt(meta map[string]any, key string, value interface{ Get() (int, bool) }) {
	if v, ok := value.Get(); ok {
		meta[key] = v
	}
}

func setIfPresentTime(meta map[string]any, key string, value interface{ Get() (time.Time, bool) }) {
	if v, ok := value.Get(); ok {
		meta[key] = v.Format(time.RFC3339)
	}
}
