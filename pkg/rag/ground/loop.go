package ground

import (
	"context"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/store"
)

// Decision codes returned by the batch decider.
const (
	CodeFound        = 1 // batch answers the question
	CodeInsufficient = 2 // need more pages
	CodeNotInCorpus  = 3 // answer is not in the documents, consider web
)

// Decision is the strict control object produced per batch.
// Text is non-empty iff Code == CodeFound.
type Decision struct {
	Code int
	Text string
}

// Decider asks a model whether a batch of passages answers the query.
// Implementations must map any parse or transport failure to
// {Code: CodeInsufficient} rather than returning an error.
type Decider interface {
	DecideBatch(ctx context.Context, query string, batch []store.Passage) Decision
}

// OutcomeKind tags how the loop ended.
type OutcomeKind int

const (
	// Accepted: a batch answered the question; Sources is that batch only.
	Accepted OutcomeKind = iota + 1
	// Exhausted: every batch was insufficient; Sources is the whole pool,
	// kept as best-effort grounding.
	Exhausted
	// DivertToWeb: the model judged the corpus cannot answer; Sources is
	// the whole pool and web search should also be consulted where routing
	// permits.
	DivertToWeb
)

// Outcome is the explicit result of one loop run.
type Outcome struct {
	Kind    OutcomeKind
	Text    string // answer text, set when Kind == Accepted
	Sources []store.Passage
}

const (
	// PoolCap bounds how many reranked candidates the loop consumes.
	PoolCap = 15
	// BatchSize is how many passages one sufficiency check sees.
	BatchSize = 3
)

// Loop is the batched sufficiency-check state machine. Batches are evaluated
// strictly in ranked order, one at a time; ordering determines which evidence
// is trusted first, so this is deliberately not parallelized.
type Loop struct {
	decider Decider
	logger  logger.ILogger
}

func NewLoop(decider Decider, log logger.ILogger) *Loop {
	return &Loop{
		decider: decider,
		logger:  log,
	}
}

// Run consumes the pool in fixed-size batches until a batch is accepted, the
// model diverts to the web, the pool is exhausted, or ctx is cancelled. A
// cancelled context ends the loop as Exhausted without further model calls.
func (l *Loop) Run(ctx context.Context, query string, pool []store.Passage) Outcome {
	if len(pool) > PoolCap {
		pool = pool[:PoolCap]
	}

	for i := 0; i < len(pool); i += BatchSize {
		if ctx.Err() != nil {
			l.logger.Warn("ground", "decision loop cancelled", map[string]interface{}{"batch": i / BatchSize})
			return Outcome{Kind: Exhausted, Sources: pool}
		}

		end := i + BatchSize
		if end > len(pool) {
			end = len(pool)
		}
		batch := pool[i:end]

		decision := l.decider.DecideBatch(ctx, query, batch)
		l.logger.Info("ground", "batch decision", map[string]interface{}{
			"batch": i / BatchSize,
			"size":  len(batch),
			"code":  decision.Code,
		})

		switch {
		case decision.Code == CodeFound && decision.Text != "":
			// First acceptance wins; the source set narrows to this batch.
			return Outcome{Kind: Accepted, Text: decision.Text, Sources: batch}
		case decision.Code == CodeNotInCorpus:
			return Outcome{Kind: DivertToWeb, Sources: pool}
		}
		// CodeInsufficient (or Found without text): try the next batch.
	}

	return Outcome{Kind: Exhausted, Sources: pool}
}
