// Package manifest models the execution trace produced by a pipeline run.
//
// A manifest is a tree of Entry values. Pipeline and Switch entries own an
// ordered list of child entries; Filter entries may own pre_process and
// post_process sub-entries. Every entry records when it started and, once
// its step returned, when it ended and how long it took.
//
// Manifests render to indented JSON (Render), YAML (RenderYAML) and Graphviz
// DOT (RenderDOT). JSON is the canonical form: field order is name,
// step_type, start, end, duration, then nested steps, pre_process and
// post_process. Timestamps are epoch seconds with microsecond precision and
// durations use the ISO-8601 form P{days}DT{h}H{m}M{s}.{us}S, for example
//
//	{
//	  "name": "Hello World",
//	  "step_type": "Pipeline",
//	  "start": 1611261876.182439,
//	  "end": 1611261880.49989,
//	  "duration": "P0DT0H0M4.317451S",
//	  "steps": [...]
//	}
//
// Parse reads the JSON form back; timestamps survive the round trip exactly.
package manifest
