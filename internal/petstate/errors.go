package petstate

import "errors"

// ErrCategoryMismatch is the debug-only invariant check of spec.md
// §4.6 step 1: "Validate argument belongs to the target category".
var ErrCategoryMismatch = errors.New("petstate: state does not belong to target category")

// ErrInvariantViolated marks the unrecoverable class of error spec.md
// §7 calls out as fatal: a state-machine invariant broken beyond
// repair (e.g. current computed from a corrupted slot set). Machine
// never returns this from normal operation; it exists for the fatal
// diagnostic path surfaced via Logger.Fatal at the call site.
var ErrInvariantViolated = errors.New("petstate: state machine invariant violated")
