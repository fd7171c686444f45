package main

import (
	"strings"

	"github.com/kbukum/pipelayer/errors"
	"github.com/kbukum/pipelayer/pipeline"
)

// helloRequest is the input of the hello pipeline.
type helloRequest struct {
	Lang string `json:"lang" validate:"omitempty,oneof=en fr"`
}

// HelloFilter starts the English greeting. It ignores its input.
type HelloFilter struct{ pipeline.Base }

func (f *HelloFilter) Run(data any, ctx pipeline.Context) (any, error) {
	return pipeline.RaiseEvents(f, func(any, pipeline.Context) (any, error) {
		ctx.Logger().Debug("saying hello")
		return "Hello", nil
	})(data, ctx)
}

// WorldFilter completes the English greeting.
type WorldFilter struct{ pipeline.Base }

func (f *WorldFilter) Run(data any, ctx pipeline.Context) (any, error) {
	return pipeline.RaiseEvents(f, func(data any, _ pipeline.Context) (any, error) {
		s, ok := data.(string)
		if !ok {
			return nil, errors.InvalidInput("data", "WorldFilter expects a string")
		}
		return s + " World", nil
	})(data, ctx)
}

func bonjour(any, pipeline.Context) string { return "Bonjour" }

func leMonde(s string, _ pipeline.Context) string { return s + " le monde" }

func createResponse(data any, _ pipeline.Context) (any, error) {
	return map[string]any{"message": data}, nil
}

// language selects the greeting branch.
func language(data any, _ pipeline.Context) string {
	if r, ok := data.(helloRequest); ok {
		return strings.ToLower(r.Lang)
	}
	return ""
}

// newHelloPipeline builds the demo pipeline: a switch on the requested
// language whose branches are nested pipelines.
func newHelloPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	english, err := pipeline.New("English",
		&HelloFilter{},
		&WorldFilter{Base: pipeline.NewBase("", pipeline.WithPostProcess(createResponse))},
	)
	if err != nil {
		return nil, err
	}
	french, err := pipeline.New("French", bonjour, leMonde, createResponse)
	if err != nil {
		return nil, err
	}

	greeting, err := pipeline.NewSwitch(language, pipeline.Cases{
		"fr":             french,
		"en":             english,
		pipeline.Default: english,
	}, pipeline.WithSwitchName("Language"))
	if err != nil {
		return nil, err
	}
	return pipeline.NewWithOptions("Hello World", []any{greeting}, opts...)
}
