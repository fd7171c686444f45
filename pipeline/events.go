package pipeline

// State describes where a filter is in its run when an event fires.
type State int

const (
	StateRunning State = iota
	StateSkipping
	StateExiting
	StateCompleting
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateSkipping:
		return "Skipping"
	case StateExiting:
		return "Exiting"
	case StateCompleting:
		return "Completing"
	}
	return "Unknown"
}

// Action is set by event handlers to steer the run.
type Action int

const (
	// ActionContinue lets the filter proceed normally.
	ActionContinue Action = iota
	// ActionSkip skips the filter body. Only honoured by Start handlers.
	ActionSkip
	// ActionExit ends the filter and stops every enclosing pipeline after
	// the current step.
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "Continue"
	case ActionSkip:
		return "Skip"
	case ActionExit:
		return "Exit"
	}
	return "Unknown"
}

// EventArgs is passed by pointer to handlers, which may rewrite Data and
// set Action.
type EventArgs struct {
	Data    any
	Context Context
	State   State
	Action  Action
}

// Handler receives filter events.
type Handler func(sender Filter, args *EventArgs)

// Subscription identifies a handler registered on a HandlerList.
type Subscription struct {
	id uint64
}

type handlerEntry struct {
	id      uint64
	handler Handler
}

// HandlerList is an ordered list of handlers. Handlers are dispatched in
// registration order. The zero value is ready to use.
type HandlerList struct {
	entries []handlerEntry
	seq     uint64
}

// Subscribe appends h and returns a Subscription that removes it again.
func (l *HandlerList) Subscribe(h Handler) Subscription {
	l.seq++
	l.entries = append(l.entries, handlerEntry{id: l.seq, handler: h})
	return Subscription{id: l.seq}
}

// Unsubscribe removes the handler registered under s. It reports whether a
// handler was removed.
func (l *HandlerList) Unsubscribe(s Subscription) bool {
	for i, e := range l.entries {
		if e.id == s.id && s.id != 0 {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Concat subscribes every handler of other, in order, and returns the new
// subscriptions.
func (l *HandlerList) Concat(other *HandlerList) []Subscription {
	if other == nil {
		return nil
	}
	subs := make([]Subscription, 0, len(other.entries))
	for _, e := range other.snapshot() {
		subs = append(subs, l.Subscribe(e.handler))
	}
	return subs
}

// Len returns the number of registered handlers.
func (l *HandlerList) Len() int { return len(l.entries) }

// Emit calls every handler with sender and args. Handlers added or removed
// while emitting take effect on the next Emit.
func (l *HandlerList) Emit(sender Filter, args *EventArgs) {
	for _, e := range l.snapshot() {
		e.handler(sender, args)
	}
}

func (l *HandlerList) snapshot() []handlerEntry {
	out := make([]handlerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Events holds a filter's three event streams.
type Events struct {
	Start HandlerList
	End   HandlerList
	Exit  HandlerList
}
