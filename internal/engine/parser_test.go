package engine

import (
	"errors"
	"slices"
	"testing"
)

func TestDecodePipeline_Valid(t *testing.T) {
	body := `{
		"nodes": [
			{"id": "customInput-1", "type": "customInput", "data": {"inputName": "question"}},
			{"id": "llm-1", "type": "llm", "data": {}}
		],
		"edges": [
			{"id": "e1", "source": "customInput-1", "target": "llm-1"}
		]
	}`

	p, err := DecodePipeline([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.Nodes) != 2 || len(p.Edges) != 1 {
		t.Fatalf("expected 2 nodes and 1 edge, got %d/%d", len(p.Nodes), len(p.Edges))
	}
	if p.Nodes[0].Data["inputName"] != "question" {
		t.Errorf("data not preserved: %v", p.Nodes[0].Data)
	}
	if p.Edges[0].Source != "customInput-1" || p.Edges[0].Target != "llm-1" {
		t.Errorf("edge not preserved: %+v", p.Edges[0])
	}
}

func TestDecodePipeline_EmptyCollections(t *testing.T) {
	p, err := DecodePipeline([]byte(`{"nodes": [], "edges": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Nodes) != 0 || len(p.Edges) != 0 {
		t.Error("expected empty pipeline")
	}
}

func TestDecodePipeline_EmptyStringsAllowed(t *testing.T) {
	body := `{"nodes": [{"id": "", "type": "", "data": {}}], "edges": [{"id": "", "source": "", "target": ""}]}`

	if _, err := DecodePipeline([]byte(body)); err != nil {
		t.Errorf("empty strings should be accepted, got %v", err)
	}
}

func TestDecodePipeline_ExtraFieldsIgnored(t *testing.T) {
	body := `{"nodes": [{"id": "a", "type": "t", "data": {}, "position": {"x": 1}}], "edges": [], "meta": 1}`

	if _, err := DecodePipeline([]byte(body)); err != nil {
		t.Errorf("extra fields should be ignored, got %v", err)
	}
}

func TestDecodePipeline_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing nodes", `{"edges": []}`, "nodes"},
		{"null edges", `{"nodes": [], "edges": null}`, "edges"},
		{"missing node id", `{"nodes": [{"type": "t", "data": {}}], "edges": []}`, "nodes[0].id"},
		{"missing node type", `{"nodes": [{"id": "a", "data": {}}], "edges": []}`, "nodes[0].type"},
		{"null node data", `{"nodes": [{"id": "a", "type": "t", "data": null}], "edges": []}`, "nodes[0].data"},
		{"missing edge target", `{"nodes": [], "edges": [{"id": "e", "source": "a"}]}`, "edges[0].target"},
		{"null body", `null`, "nodes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePipeline([]byte(tt.body))
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}

			var inErr *InputError
			if !errors.As(err, &inErr) {
				t.Fatalf("expected InputError, got %T", err)
			}
			if !slices.Contains(inErr.Fields, tt.field) {
				t.Errorf("expected field %s in %v", tt.field, inErr.Fields)
			}
		})
	}
}

func TestDecodePipeline_WrongType(t *testing.T) {
	_, err := DecodePipeline([]byte(`{"nodes": [{"id": 5, "type": "t", "data": {}}], "edges": []}`))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDecodePipeline_MalformedJSON(t *testing.T) {
	for _, body := range []string{``, `{`, `{"nodes": [}`, `{"nodes": [], "edges": []} trailing`} {
		_, err := DecodePipeline([]byte(body))
		if !errors.Is(err, ErrMalformedJSON) {
			t.Errorf("body %q: expected ErrMalformedJSON, got %v", body, err)
		}
	}
}
