// Package orchestrator drives the failure-tolerant acquisition of a batch of
// clips: it obtains ordered stream candidates from the selection policy,
// attempts them sequentially with retry-on-transient-failure, cleans up
// partial artifacts between attempts, and folds the per-clip outcomes into a
// single process-wide result code.
package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/filesystem"
	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/naming"
	"github.com/ElijahAhianyo/yle-dl/internal/selection"
	"github.com/ElijahAhianyo/yle-dl/internal/streams"
	"github.com/ElijahAhianyo/yle-dl/internal/subtitles"
)

// AttemptFunc performs one download attempt of one stream candidate and
// returns the result code together with the output path it wrote to (empty
// when nothing was persisted).
type AttemptFunc func(ctx context.Context, clip media.Clip, stream streams.Stream) (exitcode.Code, string)

// RetryFunc decides whether a result code justifies trying the next
// candidate stream.
type RetryFunc func(exitcode.Code) bool

// Orchestrator is the top-level download loop. Clips are processed one at a
// time and, within a clip, candidates one at a time; there is no parallel or
// speculative execution.
type Orchestrator struct {
	subtitles *subtitles.Downloader
}

// New builds an Orchestrator with the default subtitle downloader.
func New() *Orchestrator {
	return &Orchestrator{subtitles: subtitles.NewDownloader()}
}

// NewWithSubtitles builds an Orchestrator around a custom subtitle
// downloader, primarily for tests.
func NewWithSubtitles(sd *subtitles.Downloader) *Orchestrator {
	return &Orchestrator{subtitles: sd}
}

// Process runs attempt over every clip and aggregates the outcomes. The
// aggregate starts at Success; any non-Success clip downgrades it, and a
// Failed aggregate is sticky: a later clip's Incomplete never overwrites it.
// An empty batch is a no-op reported as Success.
func (o *Orchestrator) Process(ctx context.Context, clips []media.Clip, attempt AttemptFunc, needsRetry RetryFunc, f filters.StreamFilters) exitcode.Code {
	if len(clips) == 0 {
		log.Error("No streams found")
		return exitcode.Success
	}

	overall := exitcode.Success
	for _, clip := range clips {
		candidates := selection.SelectStreams(clip.Flavors, f)

		switch {
		case len(candidates) == 0:
			log.Error("No stream found")
			overall = exitcode.Failed
		case selection.AllInvalid(candidates):
			log.Errorf("Unsupported stream: %s", candidates[0].ErrorMessage())
			overall = exitcode.Failed
		default:
			res := o.tryAllStreams(ctx, clip, candidates, attempt, needsRetry)
			if res != exitcode.Success && overall != exitcode.Failed {
				overall = res
			}
		}
	}

	return overall.ToExternal()
}

// tryAllStreams attempts the valid candidates strictly in order. A partial
// output file left by a failed attempt is removed before the next attempt
// starts. Iteration stops at the first terminal result; when the candidates
// are exhausted the latest observed result is returned (Failed if nothing
// was attempted at all).
func (o *Orchestrator) tryAllStreams(ctx context.Context, clip media.Clip, candidates []streams.Stream, attempt AttemptFunc, needsRetry RetryFunc) exitcode.Code {
	latest := exitcode.Failed
	outputFile := ""
	state := statePending

	for _, stream := range candidates {
		if !stream.IsValid() {
			continue
		}

		if outputFile != "" {
			o.removeRetryFile(outputFile)
			outputFile = ""
		}

		if dl, ok := stream.Downloader(); ok {
			log.Debugf("now trying the %s backend", dl.Name())
		}

		latest, outputFile = attempt(ctx, clip, stream)

		state = advance(state, latest, needsRetry)
		if state == stateDone {
			return latest
		}
	}

	if exhaust(state) == stateExhausted {
		log.Debug("exhausted the candidate streams")
	}
	return latest
}

// removeRetryFile deletes the partial output of a failed attempt. Deletion
// errors are logged, never fatal.
func (o *Orchestrator) removeRetryFile(filename string) {
	fs := filesystem.API()
	if exists, _ := fs.Exists(filename); !exists {
		return
	}
	log.Debug("removing the partially downloaded file")
	if err := fs.Remove(filename); err != nil {
		log.Warnf("failed to remove a partial output file: %v", err)
	}
}

// URLs returns the first valid stream URL of each clip, for --showurl.
func (o *Orchestrator) URLs(clips []media.Clip, f filters.StreamFilters) []string {
	var urls []string
	for _, clip := range clips {
		for _, s := range selection.SelectStreams(clip.Flavors, f) {
			if s.IsValid() {
				urls = append(urls, s.ToURL())
				break
			}
		}
	}
	return urls
}

// EpisodePages returns each clip's source page URL.
func (o *Orchestrator) EpisodePages(clips []media.Clip) []string {
	return lo.Map(clips, func(c media.Clip, _ int) string { return c.Webpage })
}

// Titles returns the sanitized title of each clip, for --showtitle.
func (o *Orchestrator) Titles(clips []media.Clip, io ioctx.IOContext) []string {
	return lo.Map(clips, func(c media.Clip, _ int) string {
		return naming.SaneFilename(c.Title, io.ExcludeChars)
	})
}

// Metadata serializes the batch for --showmetadata.
func (o *Orchestrator) Metadata(clips []media.Clip) ([]byte, error) {
	metas := lo.Map(clips, func(c media.Clip, _ int) map[string]any { return c.Metadata() })
	return json.MarshalIndent(metas, "", "  ")
}
