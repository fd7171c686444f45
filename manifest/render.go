package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/pipelayer/errors"
)

// epoch is a timestamp serialized as epoch seconds with six decimals.
type epoch time.Time

func (t epoch) String() string {
	tt := time.Time(t)
	sec := tt.Unix()
	usec := tt.Nanosecond() / int(time.Microsecond)
	if sec < 0 && usec > 0 {
		// -1.25 is sec=-2, usec=750000
		return fmt.Sprintf("-%d.%06d", -(sec + 1), 1_000_000-usec)
	}
	return fmt.Sprintf("%d.%06d", sec, usec)
}

func (t epoch) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *epoch) UnmarshalJSON(data []byte) error {
	parsed, err := parseEpoch(string(data))
	if err != nil {
		return err
	}
	*t = epoch(parsed)
	return nil
}

// parseEpoch reads decimal epoch seconds. Plain decimals are parsed with
// integer arithmetic so the microseconds written by String come back
// exactly; anything else goes through float64 rounded to the microsecond.
func parseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("manifest: empty timestamp")
	}
	if t, ok := parseDecimalEpoch(s); ok {
		return t, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("manifest: invalid timestamp %q", s)
	}
	micros := int64(math.Round(f * 1e6))
	return time.UnixMicro(micros).UTC(), nil
}

func parseDecimalEpoch(s string) (time.Time, bool) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || strings.ContainsAny(whole+frac, "eE+-") {
		return time.Time{}, false
	}
	if len(frac) > 6 {
		return time.Time{}, false
	}
	frac += strings.Repeat("0", 6-len(frac))
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	usec, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	micros := sec*1_000_000 + usec
	if neg {
		micros = -micros
	}
	return time.UnixMicro(micros).UTC(), true
}

// isoDuration is a duration serialized with FormatDuration.
type isoDuration time.Duration

func (d isoDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDuration(time.Duration(d)))
}

func (d *isoDuration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = isoDuration(parsed)
	return nil
}

// wireEntry fixes the serialized field order.
type wireEntry struct {
	Name        string       `json:"name" yaml:"name"`
	StepType    Kind         `json:"step_type" yaml:"step_type"`
	Start       epoch        `json:"start" yaml:"start"`
	End         *epoch       `json:"end" yaml:"end"`
	Duration    *isoDuration `json:"duration" yaml:"duration"`
	Steps       *[]*Entry    `json:"steps,omitempty" yaml:"steps,omitempty"`
	PreProcess  *Entry       `json:"pre_process,omitempty" yaml:"pre_process,omitempty"`
	PostProcess *Entry       `json:"post_process,omitempty" yaml:"post_process,omitempty"`
}

func (e *Entry) toWire() wireEntry {
	w := wireEntry{
		Name:        e.Name,
		StepType:    e.StepType,
		Start:       epoch(e.Start),
		PreProcess:  e.PreProcess,
		PostProcess: e.PostProcess,
	}
	if e.End != nil {
		end := epoch(*e.End)
		w.End = &end
	}
	if e.Duration != nil {
		d := isoDuration(*e.Duration)
		w.Duration = &d
	}
	if e.StepType.Compound() || len(e.Steps) > 0 {
		steps := e.Steps
		if steps == nil {
			steps = []*Entry{}
		}
		w.Steps = &steps
	}
	return w
}

func (e *Entry) fromWire(w wireEntry) error {
	if !w.StepType.Valid() {
		return fmt.Errorf("manifest: entry %q has unknown step_type %q", w.Name, w.StepType)
	}
	*e = Entry{
		Name:        w.Name,
		StepType:    w.StepType,
		Start:       time.Time(w.Start),
		PreProcess:  w.PreProcess,
		PostProcess: w.PostProcess,
	}
	if w.End != nil {
		end := time.Time(*w.End)
		e.End = &end
	}
	if w.Duration != nil {
		d := time.Duration(*w.Duration)
		e.Duration = &d
	}
	if w.Steps != nil {
		e.Steps = *w.Steps
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toWire())
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return e.fromWire(w)
}

// Render returns the manifest as JSON indented by indent spaces.
func Render(e *Entry, indent int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(e); err != nil {
		return "", fmt.Errorf("manifest: render %q: %w", e.Name, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Parse reads a manifest rendered by Render.
func Parse(data []byte) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.InvalidManifest(err)
	}
	return &e, nil
}
