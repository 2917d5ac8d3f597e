package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
)

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "web-client", LevelInfo)

	ctx := wrap.WithRequestID(context.Background(), "req-1")
	ctx = wrap.WithSessionKey(ctx, "abcd1234")
	ctx = wrap.WithAction(ctx, "login")
	l.Error(ctx, "login failed", errors.New("boom"), "attempt", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}

	for key, want := range map[string]string{
		"message":     "login failed",
		"service":     "web-client",
		"request_id":  "req-1",
		"session_key": "abcd1234",
		"action":      "login",
	} {
		if rec[key] != want {
			t.Errorf("%s = %v, want %q", key, rec[key], want)
		}
	}
	if e, ok := rec["error"].(map[string]any); !ok || e["msg"] != "boom" {
		t.Errorf("error = %v", rec["error"])
	}
	if _, ok := rec["timestamp"]; !ok {
		t.Error("missing timestamp")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "web-client", "warn")

	l.Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info written at WARN level: %s", buf.String())
	}
	l.Warn(context.Background(), "shown")
	if buf.Len() == 0 {
		t.Fatal("warn not written")
	}
}

func TestValidateLogLevel(t *testing.T) {
	for lvl, want := range map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "info": false, "TRACE": false} {
		if got := ValidateLogLevel(lvl); got != want {
			t.Errorf("ValidateLogLevel(%q) = %v", lvl, got)
		}
	}
}
