package manifest

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	gographviz "github.com/awalterschulze/gographviz"
	"go.yaml.in/yaml/v3"

	"github.com/kbukum/pipelayer/errors"
)

var base = time.Date(2021, 1, 21, 20, 44, 36, 182439000, time.UTC)

func sampleManifest() *Entry {
	root := Open("Pipeline", KindPipeline, base)

	first := Open("FirstFilter", KindFilter, base.Add(time.Second))
	first.PreProcess = Open("first_filter_preprocess", KindFunction, base.Add(time.Second))
	first.PreProcess.Close(base.Add(time.Second + 10*time.Microsecond))
	first.Close(base.Add(2 * time.Second))
	root.Append(first)

	lambda := Open(`[func(d any, c Context) (any, error) { return json.Marshal(d) }]`, KindFunction, base.Add(2*time.Second))
	lambda.Close(base.Add(2*time.Second + 998*time.Microsecond))
	root.Append(lambda)

	root.Close(base.Add(4*time.Second + 317451*time.Microsecond))
	return root
}

func TestOpenClose(t *testing.T) {
	e := Open("P", KindPipeline, base)
	if e.Closed() {
		t.Fatal("new entry should not be closed")
	}
	if e.Steps == nil {
		t.Error("compound entries should start with an empty step list")
	}

	e.Close(base.Add(1500 * time.Millisecond))
	if !e.Closed() {
		t.Fatal("expected entry to be closed")
	}
	if *e.Duration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", *e.Duration)
	}

	e.Close(base.Add(time.Hour))
	if *e.Duration != 1500*time.Millisecond {
		t.Error("second Close should not change the entry")
	}

	if f := Open("f", KindFunction, base); f.Steps != nil {
		t.Error("function entries should not own a step list")
	}
}

func TestStampTruncatesToMicroseconds(t *testing.T) {
	in := time.Date(2026, 1, 1, 0, 0, 0, 123456789, time.FixedZone("X", 3600))
	got := Stamp(in)
	if got.Nanosecond() != 123456000 {
		t.Errorf("expected microsecond precision, got %d ns", got.Nanosecond())
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", got.Location())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "P0DT0H0M0.000000S"},
		{4*time.Second + 317451*time.Microsecond, "P0DT0H0M4.317451S"},
		{998 * time.Microsecond, "P0DT0H0M0.000998S"},
		{26*time.Hour + 3*time.Minute + 7*time.Second, "P1DT2H3M7.000000S"},
		{-1500 * time.Millisecond, "-P0DT0H0M1.500000S"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := FormatDuration(tc.in); got != tc.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
			back, err := ParseDuration(tc.want)
			if err != nil {
				t.Fatalf("ParseDuration: %v", err)
			}
			if back != tc.in {
				t.Errorf("ParseDuration(%q) = %v, want %v", tc.want, back, tc.in)
			}
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, s := range []string{"", "4s", "PT4S", "P0DT0H0M4.1234567890S"} {
		if _, err := ParseDuration(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestRender_FieldOrder(t *testing.T) {
	out, err := Render(sampleManifest(), 2)
	if err != nil {
		t.Fatal(err)
	}

	order := []string{`"name"`, `"step_type"`, `"start"`, `"end"`, `"duration"`, `"steps"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("expected %s in output:\n%s", key, out)
		}
		if idx < last {
			t.Errorf("expected %s after previous field:\n%s", key, out)
		}
		last = idx
	}
	if !strings.Contains(out, `"start": 1611261876.182439`) {
		t.Errorf("expected epoch seconds start, got:\n%s", out)
	}
	if !strings.Contains(out, `"duration": "P0DT0H0M4.317451S"`) {
		t.Errorf("expected iso duration, got:\n%s", out)
	}
	if !strings.Contains(out, `"pre_process": {`) {
		t.Errorf("expected pre_process sub-entry, got:\n%s", out)
	}
	if strings.Contains(out, `"post_process"`) {
		t.Errorf("post_process should be omitted when it did not run:\n%s", out)
	}
	if !strings.Contains(out, "\n  \"step_type\"") {
		t.Errorf("expected two-space indentation, got:\n%s", out)
	}
	if !strings.Contains(out, "json.Marshal(d)") {
		t.Errorf("expected anonymous step source text unescaped, got:\n%s", out)
	}
}

func TestRender_UnclosedEntry(t *testing.T) {
	e := Open("Broken", KindFilter, base)
	out, err := Render(e, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"end":null`) || !strings.Contains(out, `"duration":null`) {
		t.Errorf("expected null end and duration, got %s", out)
	}
}

func TestRenderParse_RoundTrip(t *testing.T) {
	orig := sampleManifest()
	out, err := Render(orig, 4)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var want, have []*Entry
	orig.Walk(func(e *Entry, _ int) { want = append(want, e) })
	got.Walk(func(e *Entry, _ int) { have = append(have, e) })
	if len(want) != len(have) {
		t.Fatalf("expected %d entries, got %d", len(want), len(have))
	}
	for i := range want {
		w, h := want[i], have[i]
		if w.Name != h.Name || w.StepType != h.StepType {
			t.Errorf("entry %d: expected %s/%s, got %s/%s", i, w.Name, w.StepType, h.Name, h.StepType)
		}
		if !w.Start.Equal(h.Start) {
			t.Errorf("entry %d: start %v != %v", i, w.Start, h.Start)
		}
		if !w.End.Equal(*h.End) {
			t.Errorf("entry %d: end %v != %v", i, *w.End, *h.End)
		}
		if *w.Duration != *h.Duration {
			t.Errorf("entry %d: duration %v != %v", i, *w.Duration, *h.Duration)
		}
	}
}

func TestParse_PreEpochAndFloatTimestamps(t *testing.T) {
	doc := `{"name":"x","step_type":"Function","start":-1.250000,"end":1611261880.4998901,"duration":"P0DT0H0M0.000000S"}`
	e, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if !e.Start.Equal(time.UnixMicro(-1_250_000)) {
		t.Errorf("unexpected start %v", e.Start)
	}
	if !e.End.Equal(time.UnixMicro(1611261880499890)) {
		t.Errorf("unexpected end %v", e.End)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		`not json`,
		`{"name":"x","step_type":"Widget","start":1}`,
		`{"name":"x","step_type":"Function","start":"yesterday"}`,
		`{"name":"x","step_type":"Function","start":1,"duration":"4s"}`,
	}
	for _, doc := range tests {
		_, err := Parse([]byte(doc))
		if !errors.IsCode(err, errors.ErrCodeInvalidManifest) {
			t.Errorf("expected INVALID_MANIFEST for %s, got %v", doc, err)
		}
	}
}

func TestEntry_JSONNestedInOtherDocuments(t *testing.T) {
	payload := map[string]any{"manifest": sampleManifest()}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"manifest":{"name":"Pipeline"`) {
		t.Errorf("expected embedded manifest, got %s", raw)
	}
}

func TestRenderYAML_RoundTrip(t *testing.T) {
	orig := sampleManifest()
	out, err := RenderYAML(orig, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "name: Pipeline\nstep_type: Pipeline\nstart: 1611261876.182439\n") {
		t.Errorf("unexpected YAML head:\n%s", out)
	}
	if !strings.Contains(out, "duration: P0DT0H0M4.317451S") {
		t.Errorf("expected iso duration in YAML:\n%s", out)
	}

	var got Entry
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if got.Name != "Pipeline" || len(got.Steps) != 2 {
		t.Fatalf("unexpected YAML round trip: %+v", got)
	}
	if !got.Start.Equal(orig.Start) || !got.End.Equal(*orig.End) {
		t.Errorf("timestamps did not survive YAML round trip")
	}
	if got.Steps[0].PreProcess == nil {
		t.Error("expected pre_process to survive YAML round trip")
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := RenderDOT(sampleManifest())
	if err != nil {
		t.Fatal(err)
	}
	g, err := gographviz.Read([]byte(out))
	if err != nil {
		t.Fatalf("rendered DOT does not parse: %v\n%s", err, out)
	}
	if got := len(g.Nodes.Nodes); got != 4 {
		t.Errorf("expected 4 nodes, got %d:\n%s", got, out)
	}
	if got := len(g.Edges.Edges); got != 3 {
		t.Errorf("expected 3 edges, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "pre_process") {
		t.Errorf("expected labelled pre_process edge:\n%s", out)
	}
}

func TestWalk_Depth(t *testing.T) {
	depths := map[string]int{}
	sampleManifest().Walk(func(e *Entry, depth int) { depths[e.Name] = depth })
	if depths["Pipeline"] != 0 || depths["FirstFilter"] != 1 || depths["first_filter_preprocess"] != 2 {
		t.Errorf("unexpected depths: %v", depths)
	}
}

func TestRenderAs(t *testing.T) {
	e := sampleManifest()
	tests := []struct {
		format Format
		prefix string
	}{
		{FormatJSON, `{"name":"Pipeline"`},
		{"", `{"name":"Pipeline"`},
		{FormatYAML, "name: Pipeline\n"},
		{"YAML", "name: Pipeline\n"},
		{FormatDOT, "digraph"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := RenderAs(e, tt.format, 0)
			if err != nil {
				t.Fatalf("RenderAs: %v", err)
			}
			if !strings.HasPrefix(strings.TrimSpace(out), tt.prefix) {
				t.Errorf("output %q does not start with %q", out, tt.prefix)
			}
		})
	}
}

func TestRenderAs_UnknownFormat(t *testing.T) {
	_, err := RenderAs(sampleManifest(), "xml", 0)
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestFormat_ContentType(t *testing.T) {
	tests := map[Format]string{
		FormatJSON: "application/json",
		FormatYAML: "application/yaml",
		FormatDOT:  "text/vnd.graphviz",
	}
	for f, want := range tests {
		if got := f.ContentType(); got != want {
			t.Errorf("%s.ContentType() = %q, want %q", f, got, want)
		}
	}
}
