package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Init(Options{Level: "debug", Format: "json", Writer: &buf})
	WithOperation(l, "align").Debug("mesh aligned", slog.Int("islands", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "mesh aligned" || rec["op"] != "align" || rec["app"] != "uvalign" {
		t.Errorf("record = %v", rec)
	}
	if rec["islands"] != float64(3) {
		t.Errorf("islands = %v", rec["islands"])
	}
}

func TestInitConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Writer: &buf})
	l := WithComponent("cli")
	l.Info("hidden")
	l.Warn("skipping mesh", slog.String("object", "Cube"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record printed at warn level: %q", out)
	}
	if !strings.Contains(out, "WRN skipping mesh") || !strings.Contains(out, "component=cli") || !strings.Contains(out, "object=Cube") {
		t.Errorf("unexpected console line %q", out)
	}
	if L() != slog.Default() {
		t.Error("Init did not install the default logger")
	}
}

func TestInitFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "uvalign.log")
	l := Init(Options{Writer: &console, File: path})
	l.Info("written twice")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written twice"`) {
		t.Errorf("file contents = %s", data)
	}
	if !strings.Contains(console.String(), "written twice") {
		t.Errorf("console output = %q", console.String())
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARNING ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range testCases {
		if got := parseLevel(tc.in).Level(); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
