package rxnorm

import (
	"github.com/rs/zerolog"

	"github.com/coregx/rxnorm/backend"
	"github.com/coregx/rxnorm/position"
	"github.com/coregx/rxnorm/rxerr"
)

// builder turns raw native matches into host Match records.
type builder struct {
	groups []backend.GroupInfo
	tr     position.Translator
	log    zerolog.Logger
}

func newBuilder(groups []backend.GroupInfo, tr position.Translator, log zerolog.Logger) *builder {
	return &builder{groups: groups, tr: tr, log: log}
}

// span translates a native span to host index and length.
func (b *builder) span(s backend.Span) (int, int, error) {
	if s.End < s.Start {
		return 0, 0, rxerr.Newf(rxerr.IllegalSpan, "span end %d precedes start %d", s.End, s.Start)
	}
	start, err := b.tr.ToHost(s.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := b.tr.ToHost(s.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end - start, nil
}

// build assembles one Match. A group or match span that cannot be
// translated fails the whole match; a capture that cannot be translated is
// skipped and logged.
func (b *builder) build(raw *backend.RawMatch) (Match, error) {
	if len(raw.Groups) != len(b.groups) {
		return Match{}, rxerr.Newf(rxerr.Internal,
			"match reports %d groups, pattern declares %d", len(raw.Groups), len(b.groups))
	}

	index, length, err := b.span(raw.Span())
	if err != nil {
		return Match{}, err
	}
	m := Match{
		Index:   index,
		Length:  length,
		Success: true,
		Groups:  make([]Group, len(b.groups)),
	}

	for i, info := range b.groups {
		rg := raw.Groups[i]
		g := Group{Name: info.Name}
		if !rg.Span.Matched() {
			m.Groups[i] = g
			continue
		}

		g.Success = true
		g.Index, g.Length, err = b.span(rg.Span)
		if err != nil {
			return Match{}, err
		}

		if rg.History == nil {
			g.Captures = []Capture{{Index: g.Index, Length: g.Length}}
		} else {
			g.Captures = make([]Capture, 0, len(rg.History))
			for _, h := range rg.History {
				ci, cl, err := b.span(h)
				if err != nil {
					b.log.Warn().Err(err).
						Int("group", info.Ordinal).
						Int("start", h.Start).
						Int("end", h.End).
						Msg("skipping capture with untranslatable span")
					continue
				}
				g.Captures = append(g.Captures, Capture{Index: ci, Length: cl})
			}
		}
		m.Groups[i] = g
	}
	return m, nil
}
