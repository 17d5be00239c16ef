package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	// Test development mode
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize development logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Test production mode
	err = Init()
	if err != nil {
		t.Fatalf("failed to initialize production logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger = Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

// Basic logging test (slog-backed; no Sugar)
func TestLoggerBasic(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil")
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", String("k", "v"))
}

func TestLoggerNamed(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatJSON); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	defer func() { _ = Init() }()

	Get().Info(context.Background(), "dataset loaded", Int("players", 3), Strings("teams", []string{"Barcelona"}))

	out := buf.String()
	if !strings.Contains(out, `"msg":"dataset loaded"`) {
		t.Errorf("expected json message, got %q", out)
	}
	if !strings.Contains(out, `"players":3`) {
		t.Errorf("expected players field, got %q", out)
	}
	if !strings.Contains(out, `"source":`) {
		t.Errorf("expected caller source, got %q", out)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatText); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = Init() }()

	if err := SetLevelString("warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	Get().Warn(context.Background(), "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	if err := InitWith(&bytes.Buffer{}, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == nil {
		t.Fatal("discard logger is nil")
	}
	l.Named("quiet").Error(context.Background(), "dropped", Error(nil))
}

func TestNewLeavesGlobalUntouched(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	before := Get()

	var buf bytes.Buffer
	l, err := New(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Info(context.Background(), "scoped", String("requestID", "abc"))

	if Get() != before {
		t.Fatal("New replaced the global logger")
	}
	if !strings.Contains(buf.String(), `"requestID":"abc"`) {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if _, err := New(&buf, "yaml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
