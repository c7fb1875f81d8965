package media

import (
	"github.com/samber/mo"

	"github.com/ElijahAhianyo/yle-dl/internal/streams"
)

// Media kinds of a flavor.
const (
	MediaTypeAudio = "audio"
	MediaTypeVideo = "video"
)

// StreamFlavor is one quality/encoding variant of a clip. Its streams are
// interchangeable renditions of the same encoded content: selecting among
// them changes the download backend, never the content.
type StreamFlavor struct {
	MediaType string
	Height    mo.Option[int]
	Width     mo.Option[int]
	// Bitrate is in kbps.
	Bitrate mo.Option[int]
	// Streams are the delivery candidates in priority order.
	Streams []streams.Stream
	// HardSubtitle describes subtitles burned into the video image. Its URL
	// is always empty.
	HardSubtitle mo.Option[Subtitle]
}

// NewFailedFlavor is a flavor whose only stream reports an extraction error.
func NewFailedFlavor(errorMessage string) StreamFlavor {
	return StreamFlavor{
		Streams: []streams.Stream{streams.NewInvalidStream(errorMessage)},
	}
}

// Failed reports whether the flavor carries streams and all of them are
// invalid.
func (f StreamFlavor) Failed() bool {
	if len(f.Streams) == 0 {
		return false
	}
	for _, s := range f.Streams {
		if s.IsValid() {
			return false
		}
	}
	return true
}

// BackendNames lists the backends the flavor's valid streams bind to, in
// stream order.
func (f StreamFlavor) BackendNames() []string {
	var names []string
	for _, s := range f.Streams {
		if dl, ok := s.Downloader(); ok {
			names = append(names, dl.Name())
		}
	}
	return names
}
