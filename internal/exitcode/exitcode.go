// Package exitcode defines the result codes shared between download backends,
// the orchestrator and the process exit status.
package exitcode

// Code is the outcome of a download attempt or of a whole run.
type Code int

// Public codes map directly to process exit statuses.
const (
	Success    Code = 0
	Failed     Code = 1
	Incomplete Code = 2
)

// internalBit marks codes that are meaningful only inside the process and
// must never leak into the exit status.
const internalBit Code = 0x1000

// SubprocessExecuteFailed means a backend process could not even start (for
// example, the executable was not found). It is kept distinct from Failed
// because it always justifies trying the next backend.
const SubprocessExecuteFailed Code = internalBit | Failed

// ToExternal maps a possibly internal code to the public exit status.
func (c Code) ToExternal() Code {
	return c &^ internalBit
}

// IsInternal reports whether the code carries the internal marker bit.
func (c Code) IsInternal() bool {
	return c&internalBit != 0
}

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Incomplete:
		return "incomplete"
	case SubprocessExecuteFailed:
		return "subprocess execute failed"
	default:
		return "unknown"
	}
}
