package engine

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shaiso/Pipeliner/internal/domain"
)

// pipelineInput — форма Pipeline на проводе.
//
// Указатели нужны, чтобы отличать отсутствующее поле от пустой строки:
// "id": "" допустим, отсутствие id — нет.
type pipelineInput struct {
	Nodes []nodeInput `json:"nodes" validate:"required,dive"`
	Edges []edgeInput `json:"edges" validate:"required,dive"`
}

type nodeInput struct {
	ID   *string        `json:"id" validate:"required"`
	Type *string        `json:"type" validate:"required"`
	Data map[string]any `json:"data" validate:"required"`
}

type edgeInput struct {
	ID     *string `json:"id" validate:"required"`
	Source *string `json:"source" validate:"required"`
	Target *string `json:"target" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodePipeline разбирает JSON и проверяет форму Pipeline.
//
// Проверяет:
// - Корректность JSON (ErrMalformedJSON)
// - Типы полей (ErrInvalidInput)
// - Наличие nodes, edges и всех полей узлов и рёбер (ErrInvalidInput)
//
// Семантика графа (висячие рёбра, петли, дубликаты ID) не проверяется.
func DecodePipeline(data []byte) (*domain.Pipeline, error) {
	var in pipelineInput
	if err := json.Unmarshal(data, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, NewInputError("expected "+typeErr.Type.String()+", got "+typeErr.Value,
				ErrInvalidInput, typeErr.Field)
		}
		return nil, NewInputError(err.Error(), ErrMalformedJSON)
	}

	if err := validateInput(&in); err != nil {
		return nil, err
	}

	return in.toDomain(), nil
}

// validateInput проверяет обязательные поля входного pipeline.
func validateInput(in *pipelineInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return NewInputError(err.Error(), ErrInvalidInput)
	}

	fields := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, fieldPath(fe.Namespace()))
	}
	return NewInputError("field required", ErrInvalidInput, fields...)
}

// fieldPath отрезает имя корневой структуры: pipelineInput.nodes[0].id → nodes[0].id.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func (in *pipelineInput) toDomain() *domain.Pipeline {
	p := &domain.Pipeline{
		Nodes: make([]domain.Node, len(in.Nodes)),
		Edges: make([]domain.Edge, len(in.Edges)),
	}

	for i, n := range in.Nodes {
		p.Nodes[i] = domain.Node{ID: *n.ID, Type: *n.Type, Data: n.Data}
	}
	for i, e := range in.Edges {
		p.Edges[i] = domain.Edge{ID: *e.ID, Source: *e.Source, Target: *e.Target}
	}

	return p
}
