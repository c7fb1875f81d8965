package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/filesystem"
	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/streams"
)

func clipWithStreams(urls ...string) media.Clip {
	candidates := make([]streams.Stream, 0, len(urls))
	for _, u := range urls {
		candidates = append(candidates, streams.NewHTTPStream(u))
	}
	return media.Clip{
		Webpage: "https://areena.yle.fi/1-1234567",
		Title:   "Test clip",
		Flavors: []media.StreamFlavor{{
			MediaType: media.MediaTypeVideo,
			Streams:   candidates,
		}},
	}
}

// scriptedAttempt returns the scripted codes in order and records how many
// attempts were made.
func scriptedAttempt(codes []exitcode.Code, attempted *[]string) AttemptFunc {
	return func(_ context.Context, _ media.Clip, s streams.Stream) (exitcode.Code, string) {
		i := len(*attempted)
		*attempted = append(*attempted, s.ToURL())
		if i >= len(codes) {
			return exitcode.Failed, ""
		}
		return codes[i], ""
	}
}

func TestProcessSuccess(t *testing.T) {
	var attempted []string
	orch := New()

	res := orch.Process(context.Background(),
		[]media.Clip{clipWithStreams("https://example.com/a.mp4", "https://example.com/b.mp4")},
		scriptedAttempt([]exitcode.Code{exitcode.Success}, &attempted),
		saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Success, res)
	assert.Equal(t, []string{"https://example.com/a.mp4"}, attempted)
}

func TestProcessRetriesNextCandidate(t *testing.T) {
	var attempted []string
	orch := New()
	clip := clipWithStreams(
		"https://example.com/a.mp4",
		"https://example.com/b.mp4",
		"https://example.com/c.mp4")

	res := orch.Process(context.Background(), []media.Clip{clip},
		scriptedAttempt([]exitcode.Code{exitcode.SubprocessExecuteFailed, exitcode.Success}, &attempted),
		saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Success, res)
	// The third candidate is never attempted after a success.
	assert.Equal(t, []string{"https://example.com/a.mp4", "https://example.com/b.mp4"}, attempted)
}

func TestProcessIncompleteStopsRetrying(t *testing.T) {
	var attempted []string
	orch := New()
	clip := clipWithStreams("https://example.com/a.mp4", "https://example.com/b.mp4")

	res := orch.Process(context.Background(), []media.Clip{clip},
		scriptedAttempt([]exitcode.Code{exitcode.Incomplete}, &attempted),
		saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Incomplete, res)
	assert.Len(t, attempted, 1)
}

func TestProcessExhaustedCandidates(t *testing.T) {
	var attempted []string
	orch := New()
	clip := clipWithStreams("https://example.com/a.mp4", "https://example.com/b.mp4")

	res := orch.Process(context.Background(), []media.Clip{clip},
		scriptedAttempt([]exitcode.Code{exitcode.Failed, exitcode.Failed}, &attempted),
		saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Failed, res)
	assert.Len(t, attempted, 2)
}

func TestProcessFailedIsSticky(t *testing.T) {
	var attempted []string
	orch := New()
	clips := []media.Clip{
		clipWithStreams("https://example.com/a.mp4"),
		clipWithStreams("https://example.com/b.mp4"),
	}

	res := orch.Process(context.Background(), clips,
		scriptedAttempt([]exitcode.Code{exitcode.Failed, exitcode.Incomplete}, &attempted),
		saveNeedsRetry, filters.Default(nil))

	// A later Incomplete never overwrites an earlier Failed.
	assert.Equal(t, exitcode.Failed, res)
}

func TestProcessInternalCodeIsMasked(t *testing.T) {
	var attempted []string
	orch := New()

	res := orch.Process(context.Background(),
		[]media.Clip{clipWithStreams("https://example.com/a.mp4")},
		scriptedAttempt([]exitcode.Code{exitcode.SubprocessExecuteFailed}, &attempted),
		saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Failed, res)
	assert.False(t, res.IsInternal())
}

func TestProcessEmptyBatch(t *testing.T) {
	orch := New()
	res := orch.Process(context.Background(), nil, nil, saveNeedsRetry, filters.Default(nil))
	assert.Equal(t, exitcode.Success, res)
}

func TestProcessClipWithoutStreams(t *testing.T) {
	orch := New()
	clip := media.Clip{Webpage: "https://areena.yle.fi/1-1"}

	res := orch.Process(context.Background(), []media.Clip{clip},
		nil, saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Failed, res)
}

func TestProcessFailedClip(t *testing.T) {
	orch := New()
	clip := media.NewFailedClip("https://areena.yle.fi/1-1", "Failed test clip")

	res := orch.Process(context.Background(), []media.Clip{clip},
		nil, saveNeedsRetry, filters.Default(nil))

	assert.Equal(t, exitcode.Failed, res)
}

func TestTryAllStreamsRemovesPartialFile(t *testing.T) {
	filesystem.SetMemMapFs()
	defer filesystem.SetOsFs()
	fs := filesystem.API()

	orch := New()
	clip := clipWithStreams("https://example.com/a.mp4", "https://example.com/b.mp4")
	partial := "/downloads/partial.mp4"

	var attempts int
	attempt := func(_ context.Context, _ media.Clip, _ streams.Stream) (exitcode.Code, string) {
		attempts++
		if attempts == 1 {
			require.NoError(t, fs.WriteFile(partial, []byte("partial"), 0o644))
			return exitcode.Failed, partial
		}
		exists, err := fs.Exists(partial)
		require.NoError(t, err)
		assert.False(t, exists, "partial file should be removed before the retry")
		return exitcode.Success, ""
	}

	res := orch.tryAllStreams(context.Background(), clip, clip.Flavors[0].Streams, attempt, saveNeedsRetry)

	assert.Equal(t, exitcode.Success, res)
	assert.Equal(t, 2, attempts)
}

func TestAdvanceTransitions(t *testing.T) {
	tests := []struct {
		name  string
		state attemptState
		code  exitcode.Code
		retry RetryFunc
		want  attemptState
	}{
		{"pending success is done", statePending, exitcode.Success, saveNeedsRetry, stateDone},
		{"pending failure retries", statePending, exitcode.Failed, saveNeedsRetry, stateRetrying},
		{"pending incomplete is done", statePending, exitcode.Incomplete, saveNeedsRetry, stateDone},
		{"retrying failure keeps retrying", stateRetrying, exitcode.Failed, saveNeedsRetry, stateRetrying},
		{"retrying success is done", stateRetrying, exitcode.Success, saveNeedsRetry, stateDone},
		{"done is terminal", stateDone, exitcode.Failed, saveNeedsRetry, stateDone},
		{"exhausted is terminal", stateExhausted, exitcode.Success, saveNeedsRetry, stateExhausted},
		{"pipe retries only on spawn failure", statePending, exitcode.Failed, pipeNeedsRetry, stateDone},
		{"pipe spawn failure retries", statePending, exitcode.SubprocessExecuteFailed, pipeNeedsRetry, stateRetrying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, advance(tt.state, tt.code, tt.retry))
		})
	}
}

func TestExhaust(t *testing.T) {
	assert.Equal(t, stateExhausted, exhaust(statePending))
	assert.Equal(t, stateExhausted, exhaust(stateRetrying))
	assert.Equal(t, stateDone, exhaust(stateDone))
}

func TestNeedsRetryPolicies(t *testing.T) {
	assert.False(t, saveNeedsRetry(exitcode.Success))
	assert.False(t, saveNeedsRetry(exitcode.Incomplete))
	assert.True(t, saveNeedsRetry(exitcode.Failed))
	assert.True(t, saveNeedsRetry(exitcode.SubprocessExecuteFailed))

	assert.False(t, pipeNeedsRetry(exitcode.Success))
	assert.False(t, pipeNeedsRetry(exitcode.Failed))
	assert.False(t, pipeNeedsRetry(exitcode.Incomplete))
	assert.True(t, pipeNeedsRetry(exitcode.SubprocessExecuteFailed))
}

func TestQueryModes(t *testing.T) {
	orch := New()
	clips := []media.Clip{
		clipWithStreams("https://example.com/a.mp4"),
		clipWithStreams("https://example.com/b.mp4"),
	}

	urls := orch.URLs(clips, filters.Default(nil))
	assert.Equal(t, []string{"https://example.com/a.mp4", "https://example.com/b.mp4"}, urls)

	pages := orch.EpisodePages(clips)
	assert.Equal(t, []string{"https://areena.yle.fi/1-1234567", "https://areena.yle.fi/1-1234567"}, pages)
}
