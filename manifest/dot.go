package manifest

import (
	"fmt"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
)

const dotGraphName = "manifest"

var dotShapes = map[Kind]string{
	KindPipeline: "box",
	KindSwitch:   "diamond",
	KindFilter:   "box",
	KindFunction: "ellipse",
}

// RenderDOT returns the manifest as a Graphviz digraph. Every entry becomes
// a node labelled with its name, kind and duration; children hang off their
// parent in execution order and pre/post processes hang off their filter
// with labelled, dashed edges.
func RenderDOT(e *Entry) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(dotGraphName); err != nil {
		return "", fmt.Errorf("manifest: dot: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("manifest: dot: %w", err)
	}
	if err := g.AddAttr(dotGraphName, "rankdir", "LR"); err != nil {
		return "", fmt.Errorf("manifest: dot: %w", err)
	}

	r := &dotRenderer{g: g}
	if _, err := r.add(e); err != nil {
		return "", err
	}
	return g.String(), nil
}

type dotRenderer struct {
	g    *gographviz.Graph
	next int
}

func (r *dotRenderer) add(e *Entry) (string, error) {
	id := fmt.Sprintf("n%d", r.next)
	r.next++

	attrs := map[string]string{
		"label": dotQuote(dotLabel(e)),
		"shape": dotShapes[e.StepType],
	}
	if e.StepType == KindFilter {
		attrs["style"] = "rounded"
	}
	if !e.Closed() {
		attrs["color"] = "red"
	}
	if err := r.g.AddNode(dotGraphName, id, attrs); err != nil {
		return "", fmt.Errorf("manifest: dot node %q: %w", e.Name, err)
	}

	if e.PreProcess != nil {
		if err := r.link(id, e.PreProcess, "pre_process"); err != nil {
			return "", err
		}
	}
	for _, child := range e.Steps {
		if err := r.link(id, child, ""); err != nil {
			return "", err
		}
	}
	if e.PostProcess != nil {
		if err := r.link(id, e.PostProcess, "post_process"); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (r *dotRenderer) link(parent string, child *Entry, label string) error {
	childID, err := r.add(child)
	if err != nil {
		return err
	}
	attrs := map[string]string{}
	if label != "" {
		attrs["label"] = dotQuote(label)
		attrs["style"] = "dashed"
	}
	if err := r.g.AddEdge(parent, childID, true, attrs); err != nil {
		return fmt.Errorf("manifest: dot edge %s->%s: %w", parent, childID, err)
	}
	return nil
}

func dotLabel(e *Entry) string {
	parts := []string{e.Name, string(e.StepType)}
	if e.Duration != nil {
		parts = append(parts, FormatDuration(*e.Duration))
	} else {
		parts = append(parts, "unfinished")
	}
	return strings.Join(parts, "\n")
}

// dotQuote turns s into a quoted DOT string literal.
func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
