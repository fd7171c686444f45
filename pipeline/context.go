package pipeline

import (
	"context"

	"github.com/kbukum/pipelayer/logger"
)

// Context is handed unchanged to every step of a run. It carries the
// caller's settings and logger next to the usual cancellation and values.
type Context interface {
	context.Context
	// Settings returns the caller supplied settings value, possibly nil.
	Settings() any
	// Logger never returns nil.
	Logger() *logger.Logger
}

type runContext struct {
	context.Context
	settings any
	log      *logger.Logger
}

// NewContext builds a Context. A nil parent becomes context.Background and a
// nil logger becomes logger.Nop.
func NewContext(parent context.Context, settings any, log *logger.Logger) Context {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &runContext{Context: parent, settings: settings, log: log}
}

// Background returns an empty Context with no settings and a no-op logger.
func Background() Context {
	return NewContext(context.Background(), nil, nil)
}

func (c *runContext) Settings() any { return c.settings }

func (c *runContext) Logger() *logger.Logger { return c.log }
