// Package backends wraps the external download programs behind a uniform
// Downloader interface: each backend declares a name, its I/O capabilities
// and a target file extension, and turns one media URL into an output file
// or a byte stream on stdout.
package backends

import (
	"context"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/samber/lo"
)

// Backend names usable with --backend, in the default priority order.
const (
	NameWget      = "wget"
	NameFfmpeg    = "ffmpeg"
	NameYoutubeDL = "youtubedl"
)

// DefaultOrder is the backend priority used when --backend is not given.
var DefaultOrder = []string{NameWget, NameFfmpeg, NameYoutubeDL}

// IOCapability is an optional feature a backend may support.
type IOCapability string

const (
	CapResume    IOCapability = "resume"
	CapRateLimit IOCapability = "ratelimit"
	CapDuration  IOCapability = "duration"
)

// FileExtension is the extension a backend writes. Mandatory extensions
// replace whatever the user put in an output template.
type FileExtension struct {
	Ext       string
	Mandatory bool
}

// MandatoryExt builds a FileExtension the backend insists on.
func MandatoryExt(ext string) FileExtension {
	return FileExtension{Ext: ext, Mandatory: true}
}

// PreferredExt builds a FileExtension used only when the template has none.
func PreferredExt(ext string) FileExtension {
	return FileExtension{Ext: ext, Mandatory: false}
}

// Downloader is one concrete way to fetch a stream's bytes.
type Downloader interface {
	Name() string
	FileExtension() FileExtension
	IOCapabilities() []IOCapability
	// SaveStream writes the stream into outputFile.
	SaveStream(ctx context.Context, outputFile string, io ioctx.IOContext) exitcode.Code
	// Pipe streams bytes to stdout. A non-empty subtitleURL is muxed in by
	// backends that can, and ignored by the rest.
	Pipe(ctx context.Context, io ioctx.IOContext, subtitleURL string) exitcode.Code
	// WarnOnUnsupportedFeature logs when the run configuration asks for
	// something this backend cannot honor.
	WarnOnUnsupportedFeature(io ioctx.IOContext)
	// StreamURL is the raw media URL, for --showurl.
	StreamURL() string
}

// HasCapability reports whether the downloader declares the capability.
func HasCapability(d Downloader, cap IOCapability) bool {
	return lo.Contains(d.IOCapabilities(), cap)
}

// base carries the state shared by the external-process backends.
type base struct {
	name string
	url  string
	ext  FileExtension
	caps []IOCapability
}

func (b *base) Name() string { return b.name }

func (b *base) FileExtension() FileExtension { return b.ext }

func (b *base) IOCapabilities() []IOCapability { return b.caps }

func (b *base) StreamURL() string { return b.url }

func (b *base) has(cap IOCapability) bool {
	return lo.Contains(b.caps, cap)
}

func (b *base) WarnOnUnsupportedFeature(io ioctx.IOContext) {
	if io.Resume && !b.has(CapResume) {
		log.Warnf("--resume is not supported by the %s backend", b.name)
	}
	if io.Limits.RateLimit > 0 && !b.has(CapRateLimit) {
		log.Warnf("--ratelimit is not supported by the %s backend", b.name)
	}
	if io.Limits.Duration > 0 && !b.has(CapDuration) {
		log.Warnf("--duration is not supported by the %s backend", b.name)
	}
}
