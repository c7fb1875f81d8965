package orchestrator

import (
	"context"

	"github.com/ElijahAhianyo/yle-dl/internal/backends"
	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/filters"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
	"github.com/ElijahAhianyo/yle-dl/internal/naming"
	"github.com/ElijahAhianyo/yle-dl/internal/streams"
)

// DownloadClips saves each clip to a file, with sidecar subtitles and an
// optional postprocessing command.
func (o *Orchestrator) DownloadClips(ctx context.Context, clips []media.Clip, io ioctx.IOContext, f filters.StreamFilters) exitcode.Code {
	return o.Process(ctx, clips, o.saveAttempt(io, f), saveNeedsRetry, f)
}

// PipeClips writes each clip to stdout instead of a file.
func (o *Orchestrator) PipeClips(ctx context.Context, clips []media.Clip, io ioctx.IOContext, f filters.StreamFilters) exitcode.Code {
	return o.Process(ctx, clips, o.pipeAttempt(io, f), pipeNeedsRetry, f)
}

// saveAttempt downloads one stream into a freshly resolved output file. The
// subtitles are fetched before the video so that they are available even when
// the video download is interrupted.
func (o *Orchestrator) saveAttempt(io ioctx.IOContext, f filters.StreamFilters) AttemptFunc {
	return func(ctx context.Context, clip media.Clip, stream streams.Stream) (exitcode.Code, string) {
		dl, ok := stream.Downloader()
		if !ok {
			return unsupportedStream(stream), ""
		}
		dl.WarnOnUnsupportedFeature(io)

		resumeJob := io.Resume && backends.HasCapability(dl, backends.CapResume)
		outputName := naming.OutputFileName(clip, dl.FileExtension(), io, resumeJob)

		subtitleFiles := o.subtitles.SelectAndDownload(ctx, clip.Subtitles, outputName, f)

		log.Infof("Output file: %s", outputName)
		res := dl.SaveStream(ctx, outputName, io)
		if res == exitcode.Success {
			log.Infof("Stream saved to %s", outputName)
			o.postprocess(ctx, io.PostprocessCommand, outputName, subtitleFiles)
		}
		return res, outputName
	}
}

// saveNeedsRetry: an Incomplete download is user- or network-initiated and is
// never retried on another backend; everything else short of Success is.
func saveNeedsRetry(code exitcode.Code) bool {
	return code != exitcode.Success && code != exitcode.Incomplete
}

// pipeAttempt streams one candidate to stdout, muxing in the selected
// subtitle track when the backend supports it.
func (o *Orchestrator) pipeAttempt(io ioctx.IOContext, f filters.StreamFilters) AttemptFunc {
	return func(ctx context.Context, clip media.Clip, stream streams.Stream) (exitcode.Code, string) {
		dl, ok := stream.Downloader()
		if !ok {
			return unsupportedStream(stream), ""
		}
		dl.WarnOnUnsupportedFeature(io)

		subtitleURL := ""
		if selected := o.subtitles.Select(clip.Subtitles, f); len(selected) > 0 {
			subtitleURL = selected[0].URL
		}

		return dl.Pipe(ctx, io, subtitleURL), ""
	}
}

// pipeNeedsRetry: piping only falls back to the next backend when the
// backend process could not be started at all. A pipe that broke mid-stream
// has already emitted bytes, so retrying would corrupt the output.
func pipeNeedsRetry(code exitcode.Code) bool {
	return code == exitcode.SubprocessExecuteFailed
}

func unsupportedStream(stream streams.Stream) exitcode.Code {
	log.Errorf("Downloading the stream at %s is not yet supported.", stream.ToURL())
	log.Error("Try --showurl")
	return exitcode.Failed
}

// postprocess runs the user's command with the video file and the subtitle
// files as arguments. The command's outcome never affects the download's.
func (o *Orchestrator) postprocess(ctx context.Context, command, videoFile string, subtitleFiles []string) {
	if command == "" {
		return
	}
	args := append([]string{command, videoFile}, subtitleFiles...)
	var sub backends.Subprocess
	if res := sub.Execute(ctx, args, nil); res != exitcode.Success {
		log.Warnf("postprocessing command failed: %s", command)
	}
}
