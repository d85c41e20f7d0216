package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shaiso/Pipeliner/internal/domain"
)

func nodes(data ...map[string]any) *domain.Pipeline {
	p := &domain.Pipeline{}
	for i, d := range data {
		p.Nodes = append(p.Nodes, domain.Node{ID: string(rune('a' + i)), Type: "customInput", Data: d})
	}
	return p
}

func TestResolveInput_TextInLaterNodeBeatsEarlierLabel(t *testing.T) {
	p := nodes(
		map[string]any{"label": "L0"},
		map[string]any{"text": "T1"},
	)

	assert.Equal(t, "T1", ResolveInput(p, DefaultPrompt))
}

func TestResolveInput_KeyPriority(t *testing.T) {
	tests := []struct {
		name string
		p    *domain.Pipeline
		want string
	}{
		{
			name: "text wins on same node",
			p:    nodes(map[string]any{"label": "L", "inputName": "I", "text": "T"}),
			want: "T",
		},
		{
			name: "inputName in later node beats label in first",
			p:    nodes(map[string]any{"label": "L0"}, map[string]any{"inputName": "I1"}),
			want: "I1",
		},
		{
			name: "first node in order wins for same key",
			p:    nodes(map[string]any{"text": "T0"}, map[string]any{"text": "T1"}),
			want: "T0",
		},
		{
			name: "empty text falls through to inputName on same node",
			p:    nodes(map[string]any{"text": "", "inputName": "I0"}),
			want: "I0",
		},
		{
			name: "label only",
			p:    nodes(map[string]any{}, map[string]any{"label": "L1"}),
			want: "L1",
		},
		{
			name: "falsy values are skipped",
			p:    nodes(map[string]any{"text": false, "inputName": 0.0, "label": nil}, map[string]any{"label": "L1"}),
			want: "L1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveInput(tt.p, DefaultPrompt))
		})
	}
}

func TestResolveInput_Fallback(t *testing.T) {
	assert.Equal(t, DefaultPrompt, ResolveInput(nil, DefaultPrompt))
	assert.Equal(t, DefaultPrompt, ResolveInput(&domain.Pipeline{}, DefaultPrompt))
	assert.Equal(t, "custom", ResolveInput(nodes(
		map[string]any{"text": "", "inputName": []any{}, "label": map[string]any{}},
		map[string]any{"other": "x"},
		nil,
	), "custom"))
}

func TestTruthyText(t *testing.T) {
	tests := []struct {
		in     any
		want   string
		truthy bool
	}{
		{"hello", "hello", true},
		{"", "", false},
		{true, "true", true},
		{false, "true", false},
		{42.0, "42", true},
		{1.5, "1.5", true},
		{0.0, "0", false},
		{[]any{"a"}, `["a"]`, true},
		{map[string]any{"k": "v"}, `{"k":"v"}`, true},
		{nil, "", false},
	}

	for _, tt := range tests {
		got, ok := truthyText(tt.in)
		assert.Equal(t, tt.truthy, ok, "value %v", tt.in)
		if tt.truthy {
			assert.Equal(t, tt.want, got, "value %v", tt.in)
		}
	}
}
