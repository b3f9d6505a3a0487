package decision

import (
	"log/slog"

	"github.com/vmunix/shelfarr/internal/download"
)

// Result is the verdict of a single specification for a single candidate.
type Result struct {
	Accepted bool
	Reason   string
	Type     RejectionType
}

// Accept returns an accepting result.
func Accept() Result {
	return Result{Accepted: true}
}

// Declined returns a permanent rejecting result with the given reason.
func Declined(format string, args ...any) Result {
	r := NewRejection(format, args...)
	return Result{Reason: r.Reason, Type: r.Type}
}

// DeclinedTemporary returns a rejecting result that may clear on retry.
func DeclinedTemporary(format string, args ...any) Result {
	r := NewTemporaryRejection(format, args...)
	return Result{Reason: r.Reason, Type: r.Type}
}

// Specification is one pluggable predicate in the decision engine. Each is
// stateless and independent of the others. The download-client item is nil
// for candidates that did not come from a completed download.
type Specification[T any] interface {
	Name() string
	IsSatisfiedBy(item T, dl *download.ClientItem) (Result, error)
}

// Run evaluates every specification against item and returns all collected
// rejections. There is no short-circuit: the UI shows every reason a
// candidate was skipped, so every specification always runs. A specification
// returning an error is treated as a rejection carrying the specification's
// name; it never aborts the batch.
func Run[T any](specs []Specification[T], item T, dl *download.ClientItem, log *slog.Logger) []Rejection {
	var rejections []Rejection

	for _, spec := range specs {
		result, err := spec.IsSatisfiedBy(item, dl)
		if err != nil {
			log.Error("specification failed", "spec", spec.Name(), "error", err)
			rejections = append(rejections, NewRejection("%s: %s", spec.Name(), err.Error()))
			continue
		}
		if !result.Accepted {
			rejections = append(rejections, Rejection{Reason: result.Reason, Type: result.Type})
		}
	}

	return rejections
}
