package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONWithServiceField(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	log := Init(Options{Level: "debug", Output: &buf, Service: "rental-api"})
	log.Debug().Str("property_id", "7").Msg("property created")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if event["service"] != "rental-api" || event["message"] != "property created" || event["level"] != "debug" {
		t.Fatalf("unexpected event: %v", event)
	}
	if _, ok := event["time"]; !ok {
		t.Fatal("missing timestamp")
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	var first, second bytes.Buffer

	Init(Options{Output: &first})
	Init(Options{Output: &second, Level: "error"})
	lg := Get()
	lg.Info().Msg("hello")

	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected output on the first writer only: first=%q second=%q", first.String(), second.String())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponent_TagsEventsAndKeepsRootFields(t *testing.T) {
	t.Cleanup(Reset)
	var buf bytes.Buffer

	root := Init(Options{Output: &buf, Service: "rental-api", Env: "test"})
	comp := Component(root, "property-cache")
	comp.Warn().Msg("redis unavailable")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if event["component"] != "property-cache" || event["service"] != "rental-api" || event["env"] != "test" {
		t.Fatalf("unexpected event: %v", event)
	}
}
