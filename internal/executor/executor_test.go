package executor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Pipeliner/internal/domain"
	"github.com/shaiso/Pipeliner/internal/telemetry"
)

// fakeGenerator запоминает вызовы и возвращает заданный ответ.
type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
	panic   any
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.panic != nil {
		panic(g.panic)
	}
	return g.text, g.err
}

func (g *fakeGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func newExecutor(tiers ...Tier) *Executor {
	return New(Config{
		Tiers:  tiers,
		Logger: slog.New(slog.DiscardHandler),
	})
}

func TestExecute_PrimarySucceeds(t *testing.T) {
	primary := &fakeGenerator{text: "primary answer"}
	fallback := &fakeGenerator{text: "fallback answer"}
	exec := newExecutor(Tier{"primary", primary}, Tier{"fallback", fallback})

	res := exec.Execute(context.Background(), nodes(map[string]any{"text": "question"}))

	assert.False(t, res.Failed())
	assert.Equal(t, "primary answer", res.Output)
	assert.Equal(t, "primary", res.Tier)
	assert.Equal(t, "question", res.Input)
	assert.Equal(t, []string{"question"}, primary.calls())
	assert.Empty(t, fallback.calls())
}

func TestExecute_FallbackCalledOnceWithSameInput(t *testing.T) {
	primary := &fakeGenerator{err: errors.New("quota exceeded")}
	fallback := &fakeGenerator{text: "fallback answer"}
	exec := newExecutor(Tier{"primary", primary}, Tier{"fallback", fallback})

	res := exec.Execute(context.Background(), nodes(map[string]any{"inputName": "Q"}))

	require.False(t, res.Failed())
	assert.Equal(t, "fallback answer", res.Output)
	assert.Equal(t, "fallback", res.Tier)
	assert.Equal(t, []string{"Q"}, primary.calls())
	assert.Equal(t, []string{"Q"}, fallback.calls())
}

func TestExecute_AllTiersFail(t *testing.T) {
	primary := &fakeGenerator{err: errors.New("primary down")}
	fallback := &fakeGenerator{err: errors.New("fallback down")}
	exec := newExecutor(Tier{"primary", primary}, Tier{"fallback", fallback})

	res := exec.Execute(context.Background(), nodes())

	require.True(t, res.Failed())
	assert.Equal(t, "fallback down", res.Err)
	assert.Equal(t, DefaultPrompt, res.Input)
	assert.Equal(t, domain.ExecutionStatusFailed, res.Status())
	assert.Len(t, primary.calls(), 1)
	assert.Len(t, fallback.calls(), 1)

	body, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "fallback down"}`, string(body))
}

func TestExecute_PanickingTierFallsBack(t *testing.T) {
	primary := &fakeGenerator{panic: "boom"}
	fallback := &fakeGenerator{text: "ok"}
	exec := newExecutor(Tier{"primary", primary}, Tier{"fallback", fallback})

	var res Result
	require.NotPanics(t, func() {
		res = exec.Execute(context.Background(), nodes(map[string]any{"text": "T"}))
	})
	assert.Equal(t, "ok", res.Output)
	assert.Equal(t, []string{"T"}, fallback.calls())
}

func TestExecute_NeverPanics(t *testing.T) {
	exec := newExecutor(
		Tier{"primary", &fakeGenerator{panic: errors.New("primary exploded")}},
		Tier{"fallback", &fakeGenerator{panic: "fallback exploded"}},
	)

	var res Result
	require.NotPanics(t, func() {
		res = exec.Execute(context.Background(), nil)
	})
	assert.True(t, res.Failed())
	assert.Contains(t, res.Err, "fallback exploded")
}

// panicMarshaler паникует при сериализации в JSON.
type panicMarshaler struct{}

func (panicMarshaler) MarshalJSON() ([]byte, error) {
	panic("marshal exploded")
}

func TestExecute_PanicDuringResolutionCountedAsFailed(t *testing.T) {
	primary := &fakeGenerator{text: "unused"}
	exec := newExecutor(Tier{"primary", primary})
	failedTotal := telemetry.ExecutionsTotal.WithLabelValues(string(domain.ExecutionStatusFailed))
	before := testutil.ToFloat64(failedTotal)

	var res Result
	require.NotPanics(t, func() {
		res = exec.Execute(context.Background(), nodes(map[string]any{"text": []any{panicMarshaler{}}}))
	})

	assert.True(t, res.Failed())
	assert.Contains(t, res.Err, "marshal exploded")
	assert.Empty(t, primary.calls())
	assert.InDelta(t, before+1, testutil.ToFloat64(failedTotal), 0.001)
}

func TestExecute_NoTiers(t *testing.T) {
	res := newExecutor().Execute(context.Background(), nodes())

	assert.True(t, res.Failed())
	assert.Equal(t, ErrNoTiers.Error(), res.Err)
}

func TestExecute_NilGenerator(t *testing.T) {
	fallback := &fakeGenerator{text: "ok"}
	res := newExecutor(Tier{Name: "primary"}, Tier{"fallback", fallback}).
		Execute(context.Background(), nodes())

	assert.Equal(t, "ok", res.Output)
}

func TestExecute_CustomDefaultPrompt(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	exec := New(Config{
		Tiers:         []Tier{{"primary", gen}},
		DefaultPrompt: "say hi",
		Logger:        slog.New(slog.DiscardHandler),
	})

	exec.Execute(context.Background(), nodes(map[string]any{"label": ""}))
	assert.Equal(t, []string{"say hi"}, gen.calls())
}

func TestResult_MarshalJSON(t *testing.T) {
	body, err := json.Marshal(Result{Output: "", Input: "x", Tier: "primary"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result": ""}`, string(body))

	body, err = json.Marshal(Result{Output: "text"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result": "text"}`, string(body))
}
