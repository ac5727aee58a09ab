// Package resolver maps a free-text property reference onto canonical catalog
// records using a cascade of matching strategies ordered by specificity.
// The first strategy producing any candidates decides the outcome; coarser
// strategies are never consulted once a finer one has matched.
package resolver

import (
	"sort"
	"strings"

	"github.com/TonySuccar/autogen-realestate/core"
	"github.com/TonySuccar/autogen-realestate/internal/textutil"
)

// Strategy tags the matching rule that produced a candidate.
type Strategy string

// Strategies in cascade priority order.
const (
	StrategyExactTitle  Strategy = "exact_title"
	StrategyPartial     Strategy = "partial_title"
	StrategyDescription Strategy = "description"
	StrategyWordOverlap Strategy = "word_overlap"
	StrategyCity        Strategy = "city"
)

// DefaultOverlapThreshold is the minimum word-overlap ratio (matched query
// tokens over total query tokens) for the word-overlap strategy to keep a
// candidate. Tunable via WithOverlapThreshold.
const DefaultOverlapThreshold = 0.5

// MatchCandidate pairs a catalog record with the strategy that matched it and
// a confidence in (0, 1]. Candidate lists are transient, derived per call.
type MatchCandidate struct {
	Record     core.PropertyRecord
	Strategy   Strategy
	Confidence float64
}

// OutcomeKind discriminates resolution results.
type OutcomeKind int

// Resolution outcomes.
const (
	OutcomeNone OutcomeKind = iota
	OutcomeUnique
	OutcomeAmbiguous
)

// Outcome is the result of a resolution call. Unique carries Match;
// Ambiguous carries the equally ranked Candidates in stable order.
type Outcome struct {
	Kind       OutcomeKind
	Match      MatchCandidate
	Candidates []MatchCandidate
}

// Options tune the resolver.
type Options struct {
	OverlapThreshold float64
}

// WithOverlapThreshold overrides the word-overlap cutoff.
func WithOverlapThreshold(t float64) func(o *Options) {
	return func(o *Options) { o.OverlapThreshold = t }
}

// Resolver runs the five-strategy cascade. It is stateless and safe for
// concurrent use.
type Resolver struct {
	opts Options
}

// New constructs a Resolver with optional overrides.
func New(optFns ...func(o *Options)) *Resolver {
	opts := Options{OverlapThreshold: DefaultOverlapThreshold}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{opts: opts}
}

type strategyFunc func(query string, candidates []core.PropertyRecord) []MatchCandidate

// Resolve maps the query onto zero, one or many of the supplied records.
// Candidate order within a strategy follows the input order, so ties rank
// stably.
func (r *Resolver) Resolve(query string, candidates []core.PropertyRecord) Outcome {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 {
		return Outcome{Kind: OutcomeNone}
	}

	strategies := []strategyFunc{
		r.exactTitle,
		r.partialTitle,
		r.description,
		r.wordOverlap,
		r.cityFallback,
	}
	for _, s := range strategies {
		matched := s(query, candidates)
		if len(matched) == 0 {
			continue
		}
		return decide(matched)
	}
	return Outcome{Kind: OutcomeNone}
}

// decide turns a non-empty candidate set into Unique or Ambiguous. Candidates
// sharing the top confidence are all surfaced so the caller can ask a
// clarifying question.
func decide(matched []MatchCandidate) Outcome {
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Confidence > matched[j].Confidence
	})
	if len(matched) == 1 {
		return Outcome{Kind: OutcomeUnique, Match: matched[0]}
	}
	top := matched[0].Confidence
	tied := 1
	for tied < len(matched) && matched[tied].Confidence >= top-1e-9 {
		tied++
	}
	if tied == 1 {
		return Outcome{Kind: OutcomeUnique, Match: matched[0]}
	}
	return Outcome{Kind: OutcomeAmbiguous, Candidates: matched[:tied]}
}

func (r *Resolver) exactTitle(query string, candidates []core.PropertyRecord) []MatchCandidate {
	q := textutil.Normalize(query)
	var out []MatchCandidate
	for _, rec := range candidates {
		if textutil.Normalize(rec.Title) == q {
			out = append(out, MatchCandidate{Record: rec, Strategy: StrategyExactTitle, Confidence: 1.0})
		}
	}
	return out
}

func (r *Resolver) partialTitle(query string, candidates []core.PropertyRecord) []MatchCandidate {
	q := textutil.Normalize(query)
	var out []MatchCandidate
	for _, rec := range candidates {
		title := textutil.Normalize(rec.Title)
		if strings.Contains(title, q) || strings.Contains(q, title) {
			out = append(out, MatchCandidate{Record: rec, Strategy: StrategyPartial, Confidence: 0.8})
		}
	}
	return out
}

func (r *Resolver) description(query string, candidates []core.PropertyRecord) []MatchCandidate {
	q := textutil.Normalize(query)
	var out []MatchCandidate
	for _, rec := range candidates {
		if strings.Contains(textutil.Normalize(rec.Description), q) {
			out = append(out, MatchCandidate{Record: rec, Strategy: StrategyDescription, Confidence: 0.6})
		}
	}
	return out
}

func (r *Resolver) wordOverlap(query string, candidates []core.PropertyRecord) []MatchCandidate {
	var out []MatchCandidate
	for _, rec := range candidates {
		ratio := textutil.OverlapRatio(query, rec.Title+" "+rec.Description+" "+rec.City)
		if ratio >= r.opts.OverlapThreshold {
			out = append(out, MatchCandidate{Record: rec, Strategy: StrategyWordOverlap, Confidence: ratio})
		}
	}
	return out
}

// cityFallback keeps every property whose city appears in the query. The
// coarse geographic filter runs last so a short query never fans out to a
// whole city when a finer strategy already matched.
func (r *Resolver) cityFallback(query string, candidates []core.PropertyRecord) []MatchCandidate {
	q := textutil.Normalize(query)
	qTokens := textutil.TokenSet(query)
	var out []MatchCandidate
	for _, rec := range candidates {
		city := textutil.Normalize(rec.City)
		if city == "" {
			continue
		}
		_, tokenHit := qTokens[city]
		if tokenHit || strings.Contains(q, city) {
			out = append(out, MatchCandidate{Record: rec, Strategy: StrategyCity, Confidence: 0.3})
		}
	}
	return out
}
