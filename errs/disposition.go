package errs

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Disposition mirrors the legacy C library's global error-disposition flag
// (§5/§7 of the spec): production Go callers always get DispositionReturn —
// a plain error value. DispositionExit and DispositionAbort exist only so
// tests can exercise the historical exit-code mapping (§6) without forking a
// process for every case.
type Disposition int

const (
	// DispositionReturn propagates the error to the caller. This is the
	// only disposition production code should use, and the default.
	DispositionReturn Disposition = iota
	// DispositionExit calls os.Exit with the mapped exit code (§6: 10-25,
	// 99 for not implemented). Test-only.
	DispositionExit
	// DispositionAbort panics instead of exiting, so a test can recover()
	// and inspect the error. Test-only.
	DispositionAbort
)

var (
	dispositionMu sync.Mutex
	disposition   = DispositionReturn
)

// SetDisposition changes the global error disposition. Test-only: calling
// this from production code paths defeats the point of returning errors.
func SetDisposition(d Disposition) {
	dispositionMu.Lock()
	defer dispositionMu.Unlock()
	disposition = d
}

// CurrentDisposition returns the active disposition.
func CurrentDisposition() Disposition {
	dispositionMu.Lock()
	defer dispositionMu.Unlock()
	return disposition
}

// ExitCode maps a Kind to the legacy process exit code (§6).
func ExitCode(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return 10
	case KindProtocol:
		return 11
	case KindIO:
		return 12
	case KindResourceExhausted:
		return 13
	case KindUnitIncompatible:
		return 14
	case KindValueIncompatible:
		return 15
	case KindRangeOverflow:
		return 16
	case KindAuthRequired:
		return 17
	case KindAuthRejected:
		return 18
	case KindNotFound:
		return 19
	case KindNotImplemented:
		return 99
	default:
		return 20
	}
}

// Dispose applies the current global disposition to err. Under
// DispositionReturn (the only production setting) it simply returns err
// unchanged. Callers in library code should essentially never call this;
// it exists for top-level program entry points that want to honor the
// legacy behavior when explicitly configured.
func Dispose(err error) error {
	if err == nil {
		return nil
	}

	switch CurrentDisposition() {
	case DispositionExit:
		code := 20
		var kindErr *kindError
		if errors.As(err, &kindErr) {
			code = ExitCode(kindErr.kind)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
		return nil // unreachable
	case DispositionAbort:
		panic(err)
	default:
		return err
	}
}
