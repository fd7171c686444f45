package manifest

import "time"

// Kind identifies what sort of step an entry records.
type Kind string

const (
	KindPipeline Kind = "Pipeline"
	KindSwitch   Kind = "Switch"
	KindFilter   Kind = "Filter"
	KindFunction Kind = "Function"
)

// Compound reports whether entries of this kind own child entries.
func (k Kind) Compound() bool {
	return k == KindPipeline || k == KindSwitch
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPipeline, KindSwitch, KindFilter, KindFunction:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Entry is one node of a manifest tree.
type Entry struct {
	Name     string
	StepType Kind
	Start    time.Time
	// End and Duration stay nil until Close is called.
	End      *time.Time
	Duration *time.Duration

	// Steps holds the children of Pipeline and Switch entries.
	Steps []*Entry
	// PreProcess and PostProcess are set on Filter entries whose transforms ran.
	PreProcess  *Entry
	PostProcess *Entry
}

// Open starts a new entry at the given time.
func Open(name string, kind Kind, at time.Time) *Entry {
	e := &Entry{
		Name:     name,
		StepType: kind,
		Start:    Stamp(at),
	}
	if kind.Compound() {
		e.Steps = []*Entry{}
	}
	return e
}

// Close records the end time and duration. Only the first call has effect.
func (e *Entry) Close(at time.Time) {
	if e.End != nil {
		return
	}
	end := Stamp(at)
	if end.Before(e.Start) {
		end = e.Start
	}
	d := end.Sub(e.Start)
	e.End = &end
	e.Duration = &d
}

// Closed reports whether Close has been called.
func (e *Entry) Closed() bool { return e.End != nil }

// Append adds a child entry.
func (e *Entry) Append(child *Entry) {
	e.Steps = append(e.Steps, child)
}

// Walk visits e and all of its descendants depth first. Pre and post
// process entries are visited around their filter's children.
func (e *Entry) Walk(fn func(entry *Entry, depth int)) {
	e.walk(fn, 0)
}

func (e *Entry) walk(fn func(*Entry, int), depth int) {
	fn(e, depth)
	if e.PreProcess != nil {
		e.PreProcess.walk(fn, depth+1)
	}
	for _, child := range e.Steps {
		child.walk(fn, depth+1)
	}
	if e.PostProcess != nil {
		e.PostProcess.walk(fn, depth+1)
	}
}

// Stamp normalizes a time to UTC with microsecond precision, the resolution
// manifests are recorded and rendered at.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
