package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext() did not return the attached logger")
	}

	loggerFromContext(ctx).Debug("placed", "left", 3)
	if out := buf.String(); !strings.Contains(out, "placed") || !strings.Contains(out, "left=3") {
		t.Errorf("log output = %q", out)
	}
}

func TestConfigFromContext(t *testing.T) {
	if configFromContext(context.Background()) != defaultConfig() {
		t.Error("configFromContext() without a config should return the defaults")
	}
	cfg := defaultConfig()
	cfg.RTL = true
	if got := configFromContext(withConfig(context.Background(), cfg)); !got.RTL {
		t.Error("configFromContext() lost the attached config")
	}
}
