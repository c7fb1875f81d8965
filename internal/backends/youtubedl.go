package backends

import (
	"context"
	"fmt"
	"os"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
)

// YoutubeDL downloads HDS manifests through youtube-dl, which knows how to
// reassemble the fragmented stream. Output is always an FLV container.
type YoutubeDL struct {
	base
	exe     string
	bitrate int
}

// NewYoutubeDL binds an HDS manifest URL to the youtube-dl backend. bitrate
// selects the manifest rendition; zero lets youtube-dl pick the best one.
func NewYoutubeDL(manifestURL string, bitrate int) *YoutubeDL {
	return &YoutubeDL{
		base: base{
			name: NameYoutubeDL,
			url:  manifestURL,
			ext:  MandatoryExt(".flv"),
			caps: []IOCapability{CapResume},
		},
		exe:     "youtube-dl",
		bitrate: bitrate,
	}
}

func (y *YoutubeDL) SaveStream(ctx context.Context, outputFile string, io ioctx.IOContext) exitcode.Code {
	args := append(y.commonArgs(io), "-o", outputFile, y.url)
	return Subprocess{}.Execute(ctx, args, nil)
}

func (y *YoutubeDL) Pipe(ctx context.Context, io ioctx.IOContext, _ string) exitcode.Code {
	args := append(y.commonArgs(io), "-o", "-", y.url)
	return Subprocess{}.Execute(ctx, args, os.Stdout)
}

func (y *YoutubeDL) commonArgs(io ioctx.IOContext) []string {
	args := []string{y.exe, "--no-progress"}
	if io.Resume {
		args = append(args, "--continue")
	}
	// youtube-dl labels the f4m renditions "hds-<bitrate>".
	if y.bitrate > 0 {
		args = append(args, "-f", fmt.Sprintf("hds-%d", y.bitrate))
	}
	return args
}
