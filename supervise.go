package rxnorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/rxerr"
	"github.com/coregx/rxnorm/text"
)

type outcome struct {
	matches []Match
	err     error
}

// FindAll returns every non-overlapping match of the pattern in subject.
// No match is a success with an empty Result.
//
// The enumeration runs on a worker goroutine. FindAll returns early with a
// Cancelled or TimedOut error when ctx ends or Config.HardTimeout expires.
// An engine call in progress cannot be interrupted: the worker is abandoned,
// finishes in the background, and its result is discarded.
//
// Any offset that cannot be translated aborts the call; no partial result
// is returned.
//
// The re2 engine enumerates with Go's regexp, which drops an empty match
// that abuts the previous match: `a*` over "aa" yields only [0,2] there,
// while the other engines also report the empty match at 2.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	res, err := m.FindAll(ctx, text.FromString("aaa"))
//	if errors.Is(err, rxerr.ErrTimedOut) {
//	    // pattern too slow for this input
//	}
func (m *Matcher) FindAll(ctx context.Context, subject *text.Subject) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, &rxerr.Error{Kind: rxerr.Internal, Message: "matcher is closed", Backend: m.engine, Offset: -1}
	}
	if err := ctx.Err(); err != nil {
		return nil, rxerr.FromContext(m.engine, err)
	}

	log := m.cfg.Logger.With().
		Str("engine", m.engine).
		Str("call", uuid.NewString()).
		Logger()

	search, err := m.pat.NewSearch(subject)
	if err != nil {
		return nil, rxerr.Normalize(m.engine, err)
	}

	// Cancelled on return so an abandoned worker stops at its next poll.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan outcome, 1)
	started := time.Now()
	go func() {
		defer search.Close()
		matches, err := m.enumerate(ctx, search, log)
		done <- outcome{matches: matches, err: err}
	}()

	timer := time.NewTimer(m.cfg.HardTimeout)
	defer timer.Stop()

	select {
	case o := <-done:
		if o.err != nil {
			log.Debug().Err(o.err).Msg("enumeration failed")
			return nil, o.err
		}
		log.Debug().
			Int("matches", len(o.matches)).
			Int("length", subject.Len()).
			Dur("elapsed", time.Since(started)).
			Msg("enumeration finished")
		return &Result{subject: subject, matches: o.matches}, nil

	case <-ctx.Done():
		err := rxerr.FromContext(m.engine, ctx.Err())
		log.Warn().Err(err).Msg("abandoning worker")
		return nil, err

	case <-timer.C:
		log.Warn().Dur("hard_timeout", m.cfg.HardTimeout).Msg("abandoning worker")
		return nil, &rxerr.Error{
			Kind:    rxerr.TimedOut,
			Message: "hard timeout of " + m.cfg.HardTimeout.String() + " exceeded",
			Backend: m.engine,
			Offset:  -1,
		}
	}
}

// enumerate runs on the worker goroutine.
func (m *Matcher) enumerate(ctx context.Context, search backend.Search, log zerolog.Logger) ([]Match, error) {
	b := newBuilder(m.groups, search.Translator(), log)
	var matches []Match
	err := advance(ctx, m.engine, search, m.cfg.MaxMatches, func(raw *backend.RawMatch) error {
		match, err := b.build(raw)
		if err != nil {
			return rxerr.Normalize(m.engine, err)
		}
		matches = append(matches, match)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
