// Package ioctx carries the read-only output and I/O configuration for one
// run: where files go, how titles become filenames, and backend limits.
package ioctx

// DownloadLimits caps what a backend is allowed to transfer.
type DownloadLimits struct {
	// Duration limits recording length in seconds. Zero means unlimited.
	Duration int
	// RateLimit caps the download rate in kilobytes per second. Zero means
	// unlimited.
	RateLimit int
}

// IOContext is the read-only I/O configuration for a whole run.
type IOContext struct {
	// DestDir is prepended to generated output filenames.
	DestDir string
	// OutputFilename is an explicit output template. When set, it overrides
	// title-based naming.
	OutputFilename string
	// ExcludeChars are characters stripped from titles when building
	// filenames.
	ExcludeChars string
	// Resume continues a previously interrupted download into the same
	// output file instead of picking a fresh name.
	Resume bool
	// PostprocessCommand is executed after a successful download with the
	// video file and subtitle files as arguments.
	PostprocessCommand string
	// Limits are passed to backends that support them.
	Limits DownloadLimits
}

// DefaultExcludeChars is the minimal set of characters never allowed in
// generated filenames.
const DefaultExcludeChars = `*/|`

// VfatExcludeChars is the stricter set for FAT-family filesystems.
const VfatExcludeChars = `"*/:<>?|`
