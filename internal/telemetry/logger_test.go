package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	levels := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, level := range levels {
		if ParseLogLevel(name) != level {
			t.Fatalf("level %q did not parse to %v", name, level)
		}
	}
}

func TestLineHandler(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, slog.LevelInfo)
	defer Init(slog.LevelInfo)

	Debugf("hidden %d", 1)
	L().With("day", 2).Warn("pool incomplete", "pool", "AB")
	Infof("processed %d matches", 12)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], "WARN pool incomplete day=2 pool=AB") {
		t.Fatalf("unexpected warning line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "] processed 12 matches") {
		t.Fatalf("unexpected info line %q", lines[1])
	}
}
