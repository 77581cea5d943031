package chronology

import "github.com/recordstack/chronology/constants"

// ApplyInheritance propagates the date of service forward across pages that
// could not determine their own. Input must be sorted by ascending page
// number. A page whose date came from inheritance never seeds inheritance
// itself, which also makes the pass idempotent. Inheritance only flows
// forward; pages before the first dated page stay undated.
func ApplyInheritance(pages []PageResult) []PageResult {
	out := make([]PageResult, len(pages))
	var lastDated *PageResult
	for i := range pages {
		out[i] = pages[i]
		p := &out[i]
		switch {
		case p.HasOwnDate():
			lastDated = p
		case p.DateSource == constants.SourceInherited:
			// already resolved in a previous pass; leave as-is
		case lastDated != nil:
			d := *lastDated.DateOfService
			p.DateOfService = &d
			p.DateSource = constants.SourceInherited
			p.InheritedFrom = lastDated.PageNumber
		}
	}
	return out
}
