package pipeline

import (
	"reflect"

	"github.com/kbukum/pipelayer/manifest"
)

// Func is the signature every step resolves to.
type Func func(data any, ctx Context) (any, error)

// Step is a resolved pipeline step: a name, a kind and what to execute.
// Build one with FunctionStep, FilterStep, PipelineStep, SwitchStep or
// Classify.
type Step struct {
	name string
	kind manifest.Kind
	run  Func

	filter   Filter
	pre      Func
	preName  string
	post     Func
	postName string

	pipeline *Pipeline
	sw       *Switch
}

// Name returns the name recorded in the manifest.
func (s Step) Name() string { return s.name }

// Kind returns the step kind.
func (s Step) Kind() manifest.Kind { return s.kind }

// IsZero reports whether s was never built.
func (s Step) IsZero() bool { return s.kind == "" }

// FunctionStep wraps fn. An empty name is derived from the function.
func FunctionStep(name string, fn Func) Step {
	if name == "" {
		name = funcName(fn)
	}
	return Step{name: name, kind: manifest.KindFunction, run: fn}
}

// FilterStep wraps f, picking up its pre/post transforms.
func FilterStep(f Filter) Step {
	s := Step{
		name:   filterName(f),
		kind:   manifest.KindFilter,
		run:    f.Run,
		filter: f,
	}
	if p, ok := f.(PreProcessor); ok {
		if fn := p.PreProcess(); fn != nil {
			s.pre, s.preName = fn, funcName(fn)
		}
	}
	if p, ok := f.(PostProcessor); ok {
		if fn := p.PostProcess(); fn != nil {
			s.post, s.postName = fn, funcName(fn)
		}
	}
	return s
}

// PipelineStep nests p. Its steps are recorded as children of the entry.
func PipelineStep(p *Pipeline) Step {
	return Step{name: p.Name(), kind: manifest.KindPipeline, run: p.Run, pipeline: p}
}

// SwitchStep nests s.
func SwitchStep(s *Switch) Step {
	return Step{name: s.Name(), kind: manifest.KindSwitch, run: s.Run, sw: s}
}

func filterName(f Filter) string {
	if name := f.Name(); name != "" {
		return name
	}
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return "Filter"
}
