// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"gioui.org/glctx/internal/drivertest"
)

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
	if err := h.Handle(context.Background(), slog.Record{}); err != nil {
		t.Errorf("nopHandler.Handle() = %v, want nil", err)
	}
	if _, ok := h.WithAttrs([]slog.Attr{slog.String("key", "val")}).(nopHandler); !ok {
		t.Error("nopHandler.WithAttrs() didn't return a nopHandler")
	}
	if _, ok := h.WithGroup("group").(nopHandler); !ok {
		t.Error("nopHandler.WithGroup() didn't return a nopHandler")
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	d := newTestDevice(t, drivertest.New())
	ctx := newTestContext(t, d, Generic{})
	d.DestroyContext(ctx)
	out := buf.String()
	for _, msg := range []string{"wgl: context created", "wgl: context destroyed"} {
		if !strings.Contains(out, msg) {
			t.Errorf("expected log output to contain %q, got: %s", msg, out)
		}
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) didn't restore the silent logger")
	}
}

func TestDiscoveryFailureLogged(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	drv := drivertest.New()
	drv.FailLegacyFormat = true
	new(registry).resolve(drv)
	if !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected a warning, got: %s", buf.String())
	}
}
