// Package selection implements the flavor selection and backend matching
// policy: which quality variant of a clip to fetch, and which delivery
// candidates to hand to the download loop, in what order.
package selection

import (
	"sort"

	"github.com/samber/lo"

	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
)

// SelectFlavor picks the single best flavor under the configured filters.
// When at least one flavor exists a selection is always made: if nothing
// satisfies the numeric caps the best available flavor is returned instead
// of failing.
func SelectFlavor(flavors []media.StreamFlavor, f filters.StreamFilters) (media.StreamFlavor, bool) {
	if len(flavors) == 0 {
		return media.StreamFlavor{}, false
	}

	log.Debugf("%d flavors available, max_height: %v, max_bitrate: %v",
		len(flavors), f.MaxHeight.OrElse(0), f.MaxBitrate.OrElse(0))

	filtered := applyHardSubtitleFilter(flavors, f)
	filtered = applyResolutionFilters(filtered, f)

	if len(filtered) == 0 {
		return media.StreamFlavor{}, false
	}

	selected := filtered[len(filtered)-1]
	log.Debugf("selected flavor: height %d, bitrate %d",
		selected.Height.OrElse(0), selected.Bitrate.OrElse(0))
	return selected, true
}

// applyHardSubtitleFilter keeps hard-subtitled flavors only when the user
// asked for that exact language; otherwise burned-in subtitles are never
// selected.
func applyHardSubtitleFilter(flavors []media.StreamFlavor, f filters.StreamFilters) []media.StreamFlavor {
	if f.HardSubsRequested() {
		return lo.Filter(flavors, func(fl media.StreamFlavor, _ int) bool {
			hs, ok := fl.HardSubtitle.Get()
			return ok && filters.NormalizeLanguage(hs.Lang, "") == f.HardSubs
		})
	}
	return lo.Filter(flavors, func(fl media.StreamFlavor, _ int) bool {
		return fl.HardSubtitle.IsAbsent()
	})
}

// applyResolutionFilters returns the candidates sorted so that the last
// element is the preferred one. The sort key depends on which caps are set:
//
//	height and bitrate capped -> (height, bitrate) ascending
//	only height capped        -> (height, -bitrate) ascending, preferring
//	                             higher bitrate at an acceptable resolution
//	otherwise                 -> bitrate ascending
//
// When no flavor satisfies the caps, all flavors are sorted by bitrate,
// descending if any cap was set (pick the overall best available) and
// ascending otherwise.
func applyResolutionFilters(flavors []media.StreamFlavor, f filters.StreamFilters) []media.StreamFlavor {
	filtered := lo.Filter(flavors, func(fl media.StreamFlavor, _ int) bool {
		if mb, ok := f.MaxBitrate.Get(); ok && fl.Bitrate.OrElse(0) > mb {
			return false
		}
		if mh, ok := f.MaxHeight.Get(); ok && fl.Height.OrElse(0) > mh {
			return false
		}
		return true
	})

	var (
		acceptable []media.StreamFlavor
		key        func(media.StreamFlavor) [2]int
		reverse    bool
	)

	if len(filtered) > 0 {
		acceptable = filtered
		switch {
		case f.MaxHeight.IsPresent() && f.MaxBitrate.IsPresent():
			key = sortMaxResolutionMaxBitrate
		case f.MaxHeight.IsPresent():
			key = sortMaxResolutionMinBitrate
		default:
			key = sortMaxBitrate
		}
	} else {
		acceptable = flavors
		// Nothing satisfies the caps. With a cap set, degrade gracefully to
		// the best available flavor.
		reverse = f.AnyCapSet()
		key = sortMaxBitrate
	}

	sorted := append([]media.StreamFlavor(nil), acceptable...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := key(sorted[i]), key(sorted[j])
		if reverse {
			a, b = b, a
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
	return sorted
}

func sortMaxBitrate(fl media.StreamFlavor) [2]int {
	return [2]int{fl.Bitrate.OrElse(0), 0}
}

func sortMaxResolutionMinBitrate(fl media.StreamFlavor) [2]int {
	return [2]int{fl.Height.OrElse(0), -fl.Bitrate.OrElse(0)}
}

func sortMaxResolutionMaxBitrate(fl media.StreamFlavor) [2]int {
	return [2]int{fl.Height.OrElse(0), fl.Bitrate.OrElse(0)}
}
