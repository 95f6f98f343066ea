package ground

import (
	"context"
	"fmt"
	"testing"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/store"
)

// scriptedDecider returns one scripted decision per batch, in call order.
type scriptedDecider struct {
	decisions []Decision
	calls     int
	batches   [][]store.Passage
}

func (d *scriptedDecider) DecideBatch(ctx context.Context, query string, batch []store.Passage) Decision {
	d.batches = append(d.batches, batch)
	decision := Decision{Code: CodeInsufficient}
	if d.calls < len(d.decisions) {
		decision = d.decisions[d.calls]
	}
	d.calls++
	return decision
}

func pool(n int) []store.Passage {
	out := make([]store.Passage, n)
	for i := range out {
		out[i] = store.Passage{ID: fmt.Sprintf("p%d", i), PageNumber: i + 1}
	}
	return out
}

func TestRunAcceptsBatchAndStops(t *testing.T) {
	// Second batch (index 1) accepts; later batches must not be evaluated.
	decider := &scriptedDecider{decisions: []Decision{
		{Code: CodeInsufficient},
		{Code: CodeFound, Text: "Answer X"},
		{Code: CodeFound, Text: "never reached"},
	}}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(context.Background(), "q", pool(15))

	if outcome.Kind != Accepted {
		t.Fatalf("Kind = %v, want Accepted", outcome.Kind)
	}
	if outcome.Text != "Answer X" {
		t.Errorf("Text = %q, want %q", outcome.Text, "Answer X")
	}
	if decider.calls != 2 {
		t.Errorf("decider calls = %d, want 2", decider.calls)
	}
	// Sources narrow to exactly the accepted batch.
	want := []string{"p3", "p4", "p5"}
	if len(outcome.Sources) != len(want) {
		t.Fatalf("len(Sources) = %d, want %d", len(outcome.Sources), len(want))
	}
	for i, id := range want {
		if outcome.Sources[i].ID != id {
			t.Errorf("Sources[%d].ID = %s, want %s", i, outcome.Sources[i].ID, id)
		}
	}
}

func TestRunExhaustsPool(t *testing.T) {
	decider := &scriptedDecider{}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(context.Background(), "q", pool(15))

	if outcome.Kind != Exhausted {
		t.Fatalf("Kind = %v, want Exhausted", outcome.Kind)
	}
	if decider.calls != 5 {
		t.Errorf("decider calls = %d, want ceil(15/3) = 5", decider.calls)
	}
	if len(outcome.Sources) != 15 {
		t.Errorf("len(Sources) = %d, want the whole pool", len(outcome.Sources))
	}
	if outcome.Text != "" {
		t.Errorf("Text = %q, want empty", outcome.Text)
	}
}

func TestRunDivertsToWeb(t *testing.T) {
	decider := &scriptedDecider{decisions: []Decision{
		{Code: CodeInsufficient},
		{Code: CodeNotInCorpus},
	}}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(context.Background(), "q", pool(12))

	if outcome.Kind != DivertToWeb {
		t.Fatalf("Kind = %v, want DivertToWeb", outcome.Kind)
	}
	if decider.calls != 2 {
		t.Errorf("decider calls = %d, want 2 (terminate immediately on code 3)", decider.calls)
	}
	if len(outcome.Sources) != 12 {
		t.Errorf("len(Sources) = %d, want the whole pool", len(outcome.Sources))
	}
}

func TestRunCapsPool(t *testing.T) {
	decider := &scriptedDecider{}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(context.Background(), "q", pool(40))

	if decider.calls != 5 {
		t.Errorf("decider calls = %d, want 5 for a capped pool", decider.calls)
	}
	if len(outcome.Sources) != PoolCap {
		t.Errorf("len(Sources) = %d, want PoolCap %d", len(outcome.Sources), PoolCap)
	}
}

func TestRunFoundWithoutTextKeepsGoing(t *testing.T) {
	// A found code with no text cannot be accepted; the loop advances.
	decider := &scriptedDecider{decisions: []Decision{
		{Code: CodeFound},
		{Code: CodeFound, Text: "real answer"},
	}}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(context.Background(), "q", pool(6))

	if outcome.Kind != Accepted {
		t.Fatalf("Kind = %v, want Accepted", outcome.Kind)
	}
	if outcome.Text != "real answer" {
		t.Errorf("Text = %q, want %q", outcome.Text, "real answer")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	decider := &scriptedDecider{}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(ctx, "q", pool(9))

	if decider.calls != 0 {
		t.Errorf("decider calls = %d, want 0 after cancellation", decider.calls)
	}
	if outcome.Kind != Exhausted {
		t.Errorf("Kind = %v, want Exhausted", outcome.Kind)
	}
	if len(outcome.Sources) != 9 {
		t.Errorf("len(Sources) = %d, want the whole pool", len(outcome.Sources))
	}
}

func TestRunEmptyPool(t *testing.T) {
	decider := &scriptedDecider{}
	l := NewLoop(decider, logger.NewNopLogger())

	outcome := l.Run(context.Background(), "q", nil)

	if outcome.Kind != Exhausted {
		t.Fatalf("Kind = %v, want Exhausted", outcome.Kind)
	}
	if decider.calls != 0 {
		t.Errorf("decider calls = %d, want 0", decider.calls)
	}
}
