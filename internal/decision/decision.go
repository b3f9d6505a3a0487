// Package decision provides the accept/reject primitives shared by the
// import pipeline and the release search engine.
package decision

import "fmt"

// RejectionType distinguishes rejections that will recur from ones that may
// clear on retry.
type RejectionType int

const (
	// Permanent means the candidate structurally cannot be accepted; it
	// will reject again unless the underlying data changes.
	Permanent RejectionType = iota

	// Temporary means a transient failure (e.g. author could not be added
	// yet); the same candidate is safe to retry later.
	Temporary
)

func (t RejectionType) String() string {
	if t == Temporary {
		return "temporary"
	}
	return "permanent"
}

// Rejection is one reason a candidate was declined.
type Rejection struct {
	Reason string
	Type   RejectionType
}

// NewRejection creates a permanent rejection.
func NewRejection(format string, args ...any) Rejection {
	return Rejection{Reason: fmt.Sprintf(format, args...), Type: Permanent}
}

// NewTemporaryRejection creates a rejection that is eligible for retry.
func NewTemporaryRejection(format string, args ...any) Rejection {
	return Rejection{Reason: fmt.Sprintf(format, args...), Type: Temporary}
}

func (r Rejection) String() string {
	return r.Reason
}

// Decision wraps one candidate with zero or more rejections. Rejections only
// ever accumulate; a decision is approved exactly when it has none.
type Decision[T any] struct {
	Item       T
	rejections []Rejection
}

// New creates a decision for item carrying the given rejections.
func New[T any](item T, rejections ...Rejection) *Decision[T] {
	return &Decision[T]{Item: item, rejections: rejections}
}

// Approved reports whether the decision has no rejections.
func (d *Decision[T]) Approved() bool {
	return len(d.rejections) == 0
}

// Rejections returns the accumulated rejections.
func (d *Decision[T]) Rejections() []Rejection {
	return d.rejections
}

// Reject appends further rejections. There is no inverse: once rejected a
// decision stays rejected.
func (d *Decision[T]) Reject(rejections ...Rejection) {
	d.rejections = append(d.rejections, rejections...)
}

// Reasons returns the rejection reason strings, for result reporting.
func (d *Decision[T]) Reasons() []string {
	if len(d.rejections) == 0 {
		return nil
	}
	reasons := make([]string, len(d.rejections))
	for i, r := range d.rejections {
		reasons[i] = r.Reason
	}
	return reasons
}
