package importer

import "github.com/vmunix/shelfarr/internal/decision"

// ResultType is the final fate of one candidate file.
type ResultType int

const (
	ResultImported ResultType = iota
	ResultSkipped
	ResultRejected
)

func (t ResultType) String() string {
	switch t {
	case ResultImported:
		return "imported"
	case ResultSkipped:
		return "skipped"
	default:
		return "rejected"
	}
}

// ImportResult is the final record for one candidate: its decision plus any
// errors hit while committing it.
type ImportResult struct {
	Decision *decision.Decision[*LocalBook]
	Errors   []string
}

// NewImportResult creates a result for an approved-and-attempted decision;
// errors mark the attempt as failed.
func NewImportResult(d *decision.Decision[*LocalBook], errors ...string) *ImportResult {
	return &ImportResult{Decision: d, Errors: errors}
}

// Result derives the outcome from the decision and errors. It is never
// stored separately, so it cannot diverge from its inputs.
func (r *ImportResult) Result() ResultType {
	if r.Decision.Approved() {
		if len(r.Errors) == 0 {
			return ResultImported
		}
		return ResultSkipped
	}
	return ResultRejected
}
