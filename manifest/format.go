package manifest

import (
	"strings"

	"github.com/kbukum/pipelayer/errors"
)

// Format names a manifest rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

// Formats lists every supported rendering name.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatDOT)}
}

// RenderAs renders e in the given format. Indent is ignored for DOT.
func RenderAs(e *Entry, format Format, indent int) (string, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatJSON, "":
		return Render(e, indent)
	case FormatYAML:
		return RenderYAML(e, indent)
	case FormatDOT:
		return RenderDOT(e)
	default:
		return "", errors.InvalidInput("format", "unknown manifest format "+string(format))
	}
}

// ContentType returns the media type of a rendering.
func (f Format) ContentType() string {
	switch Format(strings.ToLower(string(f))) {
	case FormatYAML:
		return "application/yaml"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}
