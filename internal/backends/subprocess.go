package backends

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/ElijahAhianyo/yle-dl/internal/exitcode"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
)

// Subprocess runs an external program and maps its termination into a result
// code. A process that cannot even start yields SubprocessExecuteFailed so
// the orchestrator can fall back to another backend; a process killed by a
// signal yields Incomplete because a partial output file may be resumable.
type Subprocess struct{}

// Execute runs args[0] with the remaining arguments. When stdout is nil the
// child's output is routed to stderr so the process's own stdout stays clean
// for the query actions and --pipe.
func (Subprocess) Execute(ctx context.Context, args []string, stdout io.Writer) exitcode.Code {
	if len(args) == 0 {
		return exitcode.Failed
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	if stdout != nil {
		cmd.Stdout = stdout
	} else {
		cmd.Stdout = os.Stderr
	}

	log.Debugf("executing %v", args)

	if err := cmd.Start(); err != nil {
		log.Errorf("failed to execute %s: %v", args[0], err)
		return exitcode.SubprocessExecuteFailed
	}

	err := cmd.Wait()
	if err == nil {
		return exitcode.Success
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ExitCode is -1 when the process was terminated by a signal.
		if exitErr.ExitCode() == -1 || ctx.Err() != nil {
			log.Warnf("%s was interrupted", args[0])
			return exitcode.Incomplete
		}
		log.Errorf("%s exited with status %d", args[0], exitErr.ExitCode())
		return exitcode.Failed
	}

	log.Errorf("failed to execute %s: %v", args[0], err)
	return exitcode.SubprocessExecuteFailed
}
