// Package media defines the domain model handed from the extractors to the
// selection and orchestration core: clips, their quality flavors and their
// subtitle tracks. Values are produced once by an extractor and consumed
// read-only for the duration of one clip's processing.
package media

import (
	"time"

	"github.com/samber/mo"
)

// Subtitle is a sidecar subtitle track. URL is empty for subtitles burned
// into the video image (hard subtitles).
type Subtitle struct {
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

// Clip is one playable unit resolved from a source page URL.
type Clip struct {
	// Webpage is the clip's identity: the page URL it was extracted from.
	Webpage string
	Title   string
	// Flavors are the quality/encoding variants, in extractor order. A
	// flavor-merging extractor may concatenate flavors from several sources
	// before the clip is handed to the core.
	Flavors             []StreamFlavor
	DurationSeconds     mo.Option[int]
	Region              string
	PublishTimestamp    mo.Option[time.Time]
	ExpirationTimestamp mo.Option[time.Time]
	Subtitles           []Subtitle
}

// NewFailedClip builds the clip variant representing a failed extraction.
// It carries a single failed flavor with the error message and is never
// retried.
func NewFailedClip(webpage, errorMessage string) Clip {
	return Clip{
		Webpage: webpage,
		Flavors: []StreamFlavor{NewFailedFlavor(errorMessage)},
	}
}
