package rag

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/envelope"
	"ai-docchat-be/pkg/rag/ground"
	"ai-docchat-be/pkg/rag/route"
	"ai-docchat-be/pkg/rag/search"
	"ai-docchat-be/pkg/rag/synth"
	"ai-docchat-be/pkg/store"
	"ai-docchat-be/pkg/websearch"
)

// RetrieveLimit is how many candidates the vector search may return before
// deduplication and reranking narrow the pool.
const RetrieveLimit = 30

// QueryRewriter folds conversation history into one self-contained query.
type QueryRewriter interface {
	Rewrite(ctx context.Context, messages []llm.Message) string
}

// Retriever fetches candidate passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, docIds []uuid.UUID, limit int) []store.Passage
}

// Reranker reorders candidates by semantic relevance.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []store.Passage, topK int) []store.Passage
}

// GroundingLoop runs the batched sufficiency check over the reranked pool.
type GroundingLoop interface {
	Run(ctx context.Context, query string, pool []store.Passage) ground.Outcome
}

// AnswerSynthesizer renders the final answer text.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, query string, used []store.Passage, webItems []websearch.Result) string
}

// WebSearcher is the error-absorbing web search boundary.
type WebSearcher interface {
	Search(ctx context.Context, query string) []websearch.Result
}

// Result is what one orchestration run produces. Tokens stream first; the
// envelope is the terminal element of the response.
type Result struct {
	Query    string
	Answer   string
	Tokens   []string
	Envelope envelope.Envelope
}

// Orchestrator drives one chat turn through the full pipeline: rewrite,
// route, retrieve, dedupe, rerank, ground, search the web where routed, and
// synthesize. Every stage absorbs its own failures, so a run always yields
// answer text and a valid envelope; the only error returned is context
// cancellation.
type Orchestrator struct {
	rewriter  QueryRewriter
	policy    route.Policy
	retriever Retriever
	reranker  Reranker
	loop      GroundingLoop
	synth     AnswerSynthesizer
	web       WebSearcher
	logger    logger.ILogger
}

func NewOrchestrator(
	rewriter QueryRewriter,
	policy route.Policy,
	retriever Retriever,
	reranker Reranker,
	loop GroundingLoop,
	synth AnswerSynthesizer,
	web WebSearcher,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		rewriter:  rewriter,
		policy:    policy,
		retriever: retriever,
		reranker:  reranker,
		loop:      loop,
		synth:     synth,
		web:       web,
		logger:    log,
	}
}

// Orchestrate handles one chat request. State is local to the call, so
// independent requests can run concurrently.
func (o *Orchestrator) Orchestrate(ctx context.Context, messages []llm.Message, docIds []uuid.UUID, forceWeb bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := o.rewriter.Rewrite(ctx, messages)
	routing := o.policy.Decide(query, docIds, forceWeb)
	o.logger.Info("orchestrator", "routing decided", map[string]interface{}{
		"query":    query,
		"use_docs": routing.UseDocs,
		"use_web":  routing.UseWeb,
		"reason":   routing.Reason,
	})

	var sources []store.Passage
	var webItems []websearch.Result
	var acceptedAnswer string
	accepted := false

	if routing.UseDocs {
		candidates := o.retriever.Retrieve(ctx, query, docIds, RetrieveLimit)
		deduped := search.Deduplicate(candidates)
		pool := o.reranker.Rerank(ctx, query, deduped, ground.PoolCap)

		outcome := o.loop.Run(ctx, query, pool)
		sources = outcome.Sources
		if outcome.Kind == ground.Accepted {
			acceptedAnswer = outcome.Text
			accepted = true
		}
		o.logger.Info("orchestrator", "grounding finished", map[string]interface{}{
			"outcome": int(outcome.Kind),
			"sources": len(sources),
		})
	}

	if routing.UseWeb {
		webItems = o.web.Search(ctx, query)
	}

	var answer string
	switch {
	case routing.UseDocs && len(sources) > 0:
		if accepted {
			answer = acceptedAnswer
		} else {
			answer = o.synth.Synthesize(ctx, query, sources, nil)
		}
	case routing.UseWeb && len(sources) == 0:
		answer = o.synth.Synthesize(ctx, query, nil, webItems)
	default:
		answer = synth.NotFoundAnswer
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Query:    query,
		Answer:   answer,
		Tokens:   strings.Fields(answer),
		Envelope: envelope.Assemble(sources, webItems),
	}, nil
}
