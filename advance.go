package rxnorm

import (
	"context"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/rxerr"
)

// advance enumerates all non-overlapping matches of search and passes each
// raw match to emit, in ascending order. limit > 0 stops after that many
// matches.
//
// Offsets here are native. The loop starts at 0 and, for each match:
//   - non-empty: emit, resume at its end
//   - empty at end of text: emit, stop
//   - empty elsewhere: emit, then either retry anchored at the same offset
//     for a non-empty match (when the search supports it) or step past one
//     character
//
// A failed anchored retry steps past one character and continues. Spans
// ending before they start, and matches behind the cursor, abort the
// enumeration. The context is polled between attempts.
func advance(ctx context.Context, engine string, search backend.Search, limit int, emit func(*backend.RawMatch) error) error {
	tr := search.Translator()
	n := tr.NativeLen()

	// Every two attempts move the cursor at least one native unit.
	guard := 2 * (n + 2)

	start := 0
	retry := false
	emitted := 0

	for attempt := 0; start <= n; attempt++ {
		if attempt >= guard {
			return &rxerr.Error{
				Kind:    rxerr.Internal,
				Message: "enumeration made no progress",
				Backend: engine,
				Offset:  -1,
			}
		}
		if err := ctx.Err(); err != nil {
			return rxerr.FromContext(engine, err)
		}

		mode := backend.Unanchored
		if retry {
			mode = backend.AnchoredNotEmpty
		}
		m, err := search.Find(start, mode)
		if err != nil {
			return rxerr.Normalize(engine, err)
		}

		if m == nil {
			if !retry {
				return nil
			}
			retry = false
			start = tr.NextBoundary(start)
			continue
		}

		span := m.Span()
		switch {
		case span.End < span.Start:
			return rxerr.Normalize(engine, rxerr.Newf(rxerr.IllegalSpan,
				"match end %d precedes match start %d", span.End, span.Start))
		case span.Start < start:
			return rxerr.Normalize(engine, rxerr.Newf(rxerr.Internal,
				"match at %d precedes search offset %d", span.Start, start))
		case retry && (span.Empty() || span.Start != start):
			return rxerr.Normalize(engine, rxerr.Newf(rxerr.Internal,
				"anchored retry at %d returned span [%d, %d)", start, span.Start, span.End))
		}
		retry = false

		if err := emit(m); err != nil {
			return err
		}
		emitted++
		if limit > 0 && emitted >= limit {
			return nil
		}

		switch {
		case !span.Empty():
			start = span.End
		case span.End >= n:
			return nil
		case search.SupportsAnchoredNotEmpty():
			start = span.Start
			retry = true
		default:
			start = tr.NextBoundary(span.Start)
		}
	}
	return nil
}
