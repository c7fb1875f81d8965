// Package filters holds the user's stream selection constraints for one run.
package filters

import (
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/ElijahAhianyo/yle-dl/internal/backends"
)

// StreamFilters is the read-only selection configuration, constructed once
// per run.
type StreamFilters struct {
	// MaxHeight keeps only flavors whose height does not exceed it.
	MaxHeight mo.Option[int]
	// MaxBitrate keeps only flavors whose bitrate (kbps) does not exceed it.
	MaxBitrate mo.Option[int]
	// HardSubs selects flavors with subtitles of this language burned into
	// the video. Empty means hard-subtitled flavors are never selected.
	HardSubs string
	// SubLang selects sidecar subtitles: a language code, "all", or "none".
	SubLang string
	// AudioLang is the preferred audio language for live outlet selection.
	AudioLang string
	// EnabledBackends lists usable backend names in priority order.
	EnabledBackends []string
}

// New builds a StreamFilters with all language codes normalized. A zero max
// height or bitrate means the cap is unset. Backends defaults to all known
// backends when empty.
func New(maxHeight, maxBitrate int, hardSubs, subLang, audioLang string, enabledBackends []string) StreamFilters {
	if len(enabledBackends) == 0 {
		enabledBackends = backends.DefaultOrder
	}
	return StreamFilters{
		MaxHeight:       optionalCap(maxHeight),
		MaxBitrate:      optionalCap(maxBitrate),
		HardSubs:        NormalizeLanguage(hardSubs, ""),
		SubLang:         NormalizeLanguage(subLang, ""),
		AudioLang:       NormalizeLanguage(audioLang, ""),
		EnabledBackends: lo.Uniq(enabledBackends),
	}
}

// Default is the permissive filter set: no caps, soft subtitles in every
// language.
func Default(backends []string) StreamFilters {
	return New(0, 0, "", "all", "", backends)
}

func optionalCap(v int) mo.Option[int] {
	if v <= 0 {
		return mo.None[int]()
	}
	return mo.Some(v)
}

// HardSubsRequested reports whether the user asked for burned-in subtitles.
func (f StreamFilters) HardSubsRequested() bool {
	return f.HardSubs != ""
}

// SubLangMatches reports whether a subtitle track language matches the
// configured subtitle selection rule. The wildcard "all" is handled by the
// caller because it changes how many tracks are kept, not which ones match.
func (f StreamFilters) SubLangMatches(lang, category string) bool {
	return f.SubLang != "" && f.SubLang != "none" &&
		NormalizeLanguage(lang, category) == f.SubLang
}

// AudioLangMatches reports whether an audio track language matches the
// preferred audio language.
func (f StreamFilters) AudioLangMatches(lang string) bool {
	return f.AudioLang != "" && NormalizeLanguage(lang, "") == f.AudioLang
}

// AnyCapSet reports whether at least one numeric quality cap is configured.
func (f StreamFilters) AnyCapSet() bool {
	return f.MaxHeight.IsPresent() || f.MaxBitrate.IsPresent()
}
