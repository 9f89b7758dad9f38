package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/wadani-market/cms/pkg/interfaces"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("cms.articles")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		t.Fatalf("expected %T to support structured fields", logger)
	}
	child := fieldsLogger.WithFields(map[string]any{"module": "cms.articles"})
	if child == nil {
		t.Fatal("expected WithFields to return logger")
	}
	child.Debug("provider ready")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &recordingLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(stub.calls))
	}
	for i, name := range want {
		if stub.calls[i] != name {
			t.Fatalf("call %d: expected %q, got %q", i, name, stub.calls[i])
		}
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
}

func TestAdapterClonesFields(t *testing.T) {
	stub := &recordingLogger{}
	adapted := wrap(stub)

	fieldsLogger, ok := adapted.(interfaces.FieldsLogger)
	if !ok {
		t.Fatalf("expected %T to support structured fields", adapted)
	}
	fields := map[string]any{"collection": "menu-items"}
	if child := fieldsLogger.WithFields(fields); child == nil {
		t.Fatal("expected WithFields to return logger")
	}

	// Mutating the caller's map after the fact must not change what was
	// recorded.
	fields["collection"] = "benefits"
	if len(stub.fields) != 1 {
		t.Fatalf("expected one fields call, got %d", len(stub.fields))
	}
	if stub.fields[0]["collection"] != "menu-items" {
		t.Fatalf("expected cloned fields, got %v", stub.fields[0]["collection"])
	}
}

type recordingLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*recordingLogger)(nil)
var _ glog.FieldsLogger = (*recordingLogger)(nil)

func (s *recordingLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *recordingLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *recordingLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *recordingLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *recordingLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *recordingLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *recordingLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *recordingLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
