package filter

import (
	"strings"
	"time"

	"github.com/s0up4200/ombibot/ombi"
)

// Term is one element of a filter chain: either a named status predicate or a
// compiled where:-expression.
type Term struct {
	Status Status
	Expr   *ExprFilter
}

// String returns the term as the user wrote it
func (t Term) String() string {
	if t.Expr != nil {
		return "where:" + t.Expr.Expression()
	}
	return string(t.Status)
}

// ParseTerms parses a comma-separated filter list into an ordered term chain.
// A term starting with "where:" consumes the remainder of the string, so
// expressions may themselves contain commas. Unknown status names fail with
// *UnknownStatusError so the caller can reject them as a usage error.
func ParseTerms(s string, compiler Compiler) ([]Term, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	terms := make([]Term, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if expr, ok := strings.CutPrefix(part, "where:"); ok {
			rest := append([]string{expr}, parts[i+1:]...)
			compiled, err := compiler.Compile(strings.Join(rest, ","))
			if err != nil {
				return nil, err
			}
			terms = append(terms, Term{Expr: compiled})
			return terms, nil
		}
		status, err := ParseStatus(part)
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Status: status})
	}

	return terms, nil
}

// Chain applies terms in the caller's order as sequential intersections. Each
// term filters the previous term's output, so episode pruning performed by a
// released term is visible to the terms after it. The captured now instant is
// shared by every date comparison in the chain.
func Chain(records []ombi.MediaRequest, terms []Term, now time.Time) []ombi.MediaRequest {
	for _, term := range terms {
		if term.Expr != nil {
			records = ApplyExpr(records, term.Expr)
			continue
		}
		records = Apply(records, term.Status, now)
	}
	return records
}

// Apply filters records by a single status predicate. The input slice is never
// mutated; released filtering returns rebuilt records with their season trees
// narrowed to past-aired episodes.
//
// For approved/unapproved/available/unavailable the record's own boolean wins
// when present; otherwise the record matches if ANY episode under its single
// child request satisfies the episode-level analog. One approved episode makes
// a series "approved", and one unapproved episode simultaneously makes it
// "unapproved" - the predicates are independent, not exclusive.
func Apply(records []ombi.MediaRequest, status Status, now time.Time) []ombi.MediaRequest {
	out := make([]ombi.MediaRequest, 0, len(records))
	for i := range records {
		r := records[i]
		if status == StatusReleased {
			if kept, ok := released(r, now); ok {
				out = append(out, kept)
			}
			continue
		}
		if matchesStatus(&r, status) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyExpr filters records by a compiled where:-expression
func ApplyExpr(records []ombi.MediaRequest, f *ExprFilter) []ombi.MediaRequest {
	out := make([]ombi.MediaRequest, 0, len(records))
	for i := range records {
		if f.Evaluate(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchesStatus(r *ombi.MediaRequest, status Status) bool {
	switch status {
	case StatusApproved:
		if r.Approved != nil {
			return *r.Approved
		}
		return anyEpisode(r, func(ep *ombi.Episode) bool { return ep.Approved })
	case StatusUnapproved:
		if r.Approved != nil {
			return !*r.Approved
		}
		return anyEpisode(r, func(ep *ombi.Episode) bool { return !ep.Approved })
	case StatusAvailable:
		if r.Available != nil {
			return *r.Available
		}
		return anyEpisode(r, func(ep *ombi.Episode) bool { return ep.Available })
	case StatusUnavailable:
		if r.Available != nil {
			return !*r.Available
		}
		return anyEpisode(r, func(ep *ombi.Episode) bool { return !ep.Available })
	case StatusDenied:
		// Episodes carry no denied flag, so the child request's boolean is the
		// only derivation available for shows.
		return Resolve(r).Denied.True()
	default:
		return false
	}
}

func anyEpisode(r *ombi.MediaRequest, pred func(*ombi.Episode) bool) bool {
	child := r.Child()
	if child == nil {
		return false
	}
	for si := range child.SeasonRequests {
		season := &child.SeasonRequests[si]
		for ei := range season.Episodes {
			if pred(&season.Episodes[ei]) {
				return true
			}
		}
	}
	return false
}

// released reports whether the record counts as released at the captured
// instant. A record with a release date matches when that date is past. A
// series without one matches when at least one episode has aired; in that case
// the returned record's seasons are pruned down to the past-aired episodes and
// emptied seasons are dropped, narrowing what later terms and the formatter
// see.
func released(r ombi.MediaRequest, now time.Time) (ombi.MediaRequest, bool) {
	if r.ReleaseDate != nil && !r.ReleaseDate.IsZero() {
		return r, r.ReleaseDate.Before(now)
	}

	child := r.Child()
	if child == nil {
		return r, false
	}

	pruned := *child
	pruned.SeasonRequests = nil
	for si := range child.SeasonRequests {
		season := child.SeasonRequests[si]
		var aired []ombi.Episode
		for _, ep := range season.Episodes {
			if episodeAired(&ep, &season, now) {
				aired = append(aired, ep)
			}
		}
		if len(aired) == 0 {
			continue
		}
		season.Episodes = aired
		pruned.SeasonRequests = append(pruned.SeasonRequests, season)
	}

	if len(pruned.SeasonRequests) == 0 {
		return r, false
	}

	r.ChildRequests = []ombi.ChildRequest{pruned}
	return r, true
}

// episodeAired uses the episode's own air date, falling back to the season's
func episodeAired(ep *ombi.Episode, season *ombi.SeasonRequest, now time.Time) bool {
	if ep.AirDate != nil && !ep.AirDate.IsZero() {
		return ep.AirDate.Before(now)
	}
	if season.AirDate != nil && !season.AirDate.IsZero() {
		return season.AirDate.Before(now)
	}
	return false
}
