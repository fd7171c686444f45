package pipeline

import (
	"fmt"
	"reflect"

	"github.com/kbukum/pipelayer/errors"
)

var (
	stepType     = reflect.TypeOf(Step{})
	contextType  = reflect.TypeOf((*Context)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
	filterType   = reflect.TypeOf((*Filter)(nil)).Elem()
	pipelineType = reflect.TypeOf(Pipeline{})
	switchType   = reflect.TypeOf(Switch{})
)

// Classify resolves v into a Step. Accepted values are, in order:
//
//   - a Step, returned as is
//   - a reflect.Type whose pointer implements Filter, instantiated zero valued
//   - a *Pipeline or *Switch
//   - a Filter
//   - a Func, func(any, Context) (any, error) or func(any, Context) any
//   - any other func taking (T, Context) and returning T or (T, error)
//
// Nil values and anything else fail with an INVALID_STEP error. Types that
// embed Pipeline or Switch fail with SEALED_TYPE.
func Classify(v any) (Step, error) {
	switch s := v.(type) {
	case nil:
		return Step{}, errors.InvalidStep("step is nil")
	case Step:
		if s.IsZero() {
			return Step{}, errors.InvalidStep("step was never built")
		}
		return s, nil
	case reflect.Type:
		return classifyType(s)
	case *Pipeline:
		if s == nil {
			return Step{}, errors.InvalidStep("pipeline is nil")
		}
		return PipelineStep(s), nil
	case *Switch:
		if s == nil {
			return Step{}, errors.InvalidStep("switch is nil")
		}
		return SwitchStep(s), nil
	case Func:
		if s == nil {
			return Step{}, errors.InvalidStep("function is nil")
		}
		return FunctionStep("", s), nil
	case func(any, Context) (any, error):
		if s == nil {
			return Step{}, errors.InvalidStep("function is nil")
		}
		return FunctionStep("", s), nil
	case func(any, Context) any:
		if s == nil {
			return Step{}, errors.InvalidStep("function is nil")
		}
		return FunctionStep(funcName(s), func(data any, ctx Context) (any, error) {
			return s(data, ctx), nil
		}), nil
	}

	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return Step{}, errors.InvalidStep(fmt.Sprintf("step of type %T is nil", v)).
			WithDetail("type", rv.Type().String())
	}
	if err := checkSealed(rv.Type()); err != nil {
		return Step{}, err
	}
	if f, ok := v.(Filter); ok {
		return FilterStep(f), nil
	}
	return classifyFunc(rv)
}

// MustClassify is like Classify but panics on error.
func MustClassify(v any) Step {
	s, err := Classify(v)
	if err != nil {
		panic(err)
	}
	return s
}

func classifyType(t reflect.Type) (Step, error) {
	if t == nil {
		return Step{}, errors.InvalidStep("step type is nil")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if err := checkSealed(t); err != nil {
		return Step{}, err
	}
	if !reflect.PointerTo(t).Implements(filterType) {
		return Step{}, errors.InvalidStep(fmt.Sprintf("type %s does not implement Filter", t)).
			WithDetail("type", t.String())
	}
	return FilterStep(reflect.New(t).Interface().(Filter)), nil
}

// checkSealed rejects struct types built on top of Pipeline or Switch.
func checkSealed(t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == pipelineType || t == switchType || t == stepType {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft {
		case pipelineType:
			return errors.SealedType(t.String(), "Pipeline")
		case switchType:
			return errors.SealedType(t.String(), "Switch")
		}
	}
	return nil
}

func classifyFunc(rv reflect.Value) (Step, error) {
	t := rv.Type()
	if t.Kind() != reflect.Func {
		return Step{}, errors.InvalidStep(fmt.Sprintf("value of type %s is not callable", t)).
			WithDetail("type", t.String())
	}
	if t.NumIn() != 2 || t.IsVariadic() {
		return Step{}, errors.InvalidStep(fmt.Sprintf("function %s must take exactly 2 arguments (data, context)", t)).
			WithDetails(map[string]any{"type": t.String(), "arity": t.NumIn()})
	}
	if !contextType.AssignableTo(t.In(1)) {
		return Step{}, errors.InvalidStep(fmt.Sprintf("second argument of %s cannot accept a pipeline.Context", t)).
			WithDetail("type", t.String())
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return Step{}, errors.InvalidStep(fmt.Sprintf("function %s must return (T) or (T, error)", t)).
			WithDetail("type", t.String())
	}

	fn := rv.Interface()
	return FunctionStep(funcName(fn), reflectFunc(rv)), nil
}

// reflectFunc adapts a validated function value to Func.
func reflectFunc(rv reflect.Value) Func {
	t := rv.Type()
	in0 := t.In(0)
	return func(data any, ctx Context) (any, error) {
		arg, err := argument(data, in0)
		if err != nil {
			return nil, err
		}
		out := rv.Call([]reflect.Value{arg, reflect.ValueOf(&ctx).Elem()})
		if len(out) == 2 && !out[1].IsNil() {
			return out[0].Interface(), out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

func argument(data any, t reflect.Type) (reflect.Value, error) {
	if data == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.InvalidInput("data", fmt.Sprintf("step expects %s, got nil", t))
	}
	v := reflect.ValueOf(data)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, errors.InvalidInput("data", fmt.Sprintf("step expects %s, got %T", t, data))
	}
	return v, nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
