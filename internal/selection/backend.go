package selection

import (
	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/streams"
)

// SelectStreams picks the best flavor for the clip and narrows its streams
// to the candidates usable by the enabled backends.
func SelectStreams(flavors []media.StreamFlavor, f filters.StreamFilters) []streams.Stream {
	flavor, ok := SelectFlavor(flavors, f)
	if !ok {
		return nil
	}
	return FilterByBackend(flavor.Streams, f.EnabledBackends)
}

// FilterByBackend orders the streams by enabled-backend priority: for each
// enabled backend name, in the caller's configured order, every stream bound
// to that backend is appended, preserving the original stream order within
// one backend. Streams bound to a disabled backend never appear.
//
// When nothing matches, the result still carries one entry to report on:
// the first invalid input stream if there was one, or a synthetic stream
// whose error names every backend that would have worked. An empty input
// yields an empty result.
func FilterByBackend(candidates []streams.Stream, enabledBackends []string) []streams.Stream {
	type bound struct {
		stream  streams.Stream
		backend string
	}

	var withBackends []bound
	for _, s := range candidates {
		if !s.IsValid() {
			continue
		}
		if dl, ok := s.Downloader(); ok {
			withBackends = append(withBackends, bound{stream: s, backend: dl.Name()})
		}
	}

	var filtered []streams.Stream
	for _, name := range enabledBackends {
		for _, b := range withBackends {
			if b.backend == name {
				filtered = append(filtered, b.stream)
			}
		}
	}

	switch {
	case len(filtered) > 0:
		return filtered
	case firstInvalid(candidates) != nil:
		return []streams.Stream{*firstInvalid(candidates)}
	case len(candidates) > 0:
		supported := make([]string, 0, len(withBackends))
		for _, b := range withBackends {
			supported = append(supported, b.backend)
		}
		return []streams.Stream{streams.NewBackendNotEnabledStream(supported)}
	default:
		return nil
	}
}

// AllInvalid reports whether the candidate list contains no usable stream.
func AllInvalid(candidates []streams.Stream) bool {
	for _, s := range candidates {
		if s.IsValid() {
			return false
		}
	}
	return true
}

func firstInvalid(candidates []streams.Stream) *streams.Stream {
	for _, s := range candidates {
		if !s.IsValid() {
			s := s
			return &s
		}
	}
	return nil
}
