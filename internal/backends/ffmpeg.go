package backends

import (
	"context"
	"os"
	"strconv"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
)

// Ffmpeg records an HLS (or other ffmpeg-readable) stream by remuxing it
// without re-encoding.
type Ffmpeg struct {
	base
	exe string
}

// NewFfmpeg binds a stream URL to the ffmpeg backend. ext is the container
// extension the stream's flavor dictates.
func NewFfmpeg(url string, ext FileExtension) *Ffmpeg {
	return &Ffmpeg{
		base: base{
			name: NameFfmpeg,
			url:  url,
			ext:  ext,
			caps: []IOCapability{CapDuration},
		},
		exe: "ffmpeg",
	}
}

func (f *Ffmpeg) SaveStream(ctx context.Context, outputFile string, io ioctx.IOContext) exitcode.Code {
	args := f.commonArgs(io)
	args = append(args, "-c", "copy", "file:"+outputFile)
	return Subprocess{}.Execute(ctx, args, nil)
}

func (f *Ffmpeg) Pipe(ctx context.Context, io ioctx.IOContext, subtitleURL string) exitcode.Code {
	args := f.commonArgs(io)
	if subtitleURL != "" {
		args = append(args, "-i", subtitleURL, "-scodec", "copy")
	}
	args = append(args, "-c", "copy", "-f", "matroska", "pipe:1")
	return Subprocess{}.Execute(ctx, args, os.Stdout)
}

func (f *Ffmpeg) commonArgs(io ioctx.IOContext) []string {
	args := []string{f.exe, "-y", "-loglevel", "warning", "-stats"}
	if io.Limits.Duration > 0 {
		args = append(args, "-t", strconv.Itoa(io.Limits.Duration))
	}
	return append(args, "-i", f.url)
}
