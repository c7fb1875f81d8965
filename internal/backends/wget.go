package backends

import (
	"context"
	"fmt"
	"os"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
)

// Wget fetches a plain HTTP media file. It is the only backend that can
// resume a partial download.
type Wget struct {
	base
	exe string
}

// NewWget binds a direct HTTP URL to the wget backend.
func NewWget(url string, ext FileExtension) *Wget {
	return &Wget{
		base: base{
			name: NameWget,
			url:  url,
			ext:  ext,
			caps: []IOCapability{CapResume, CapRateLimit},
		},
		exe: "wget",
	}
}

func (w *Wget) SaveStream(ctx context.Context, outputFile string, io ioctx.IOContext) exitcode.Code {
	args := w.commonArgs(io)
	if io.Resume {
		args = append(args, "-c")
	}
	args = append(args, "-O", outputFile, w.url)
	return Subprocess{}.Execute(ctx, args, nil)
}

func (w *Wget) Pipe(ctx context.Context, io ioctx.IOContext, _ string) exitcode.Code {
	args := w.commonArgs(io)
	args = append(args, "-O", "-", w.url)
	return Subprocess{}.Execute(ctx, args, os.Stdout)
}

func (w *Wget) commonArgs(io ioctx.IOContext) []string {
	args := []string{w.exe, "--no-use-server-timestamps", "--tries=5", "--random-wait"}
	if io.Limits.RateLimit > 0 {
		args = append(args, fmt.Sprintf("--limit-rate=%dk", io.Limits.RateLimit))
	}
	return args
}
