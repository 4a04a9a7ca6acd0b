package appsettings

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// Shared fixture types. Config sections carry toml tags, settings sections
// json tags, matching what the decoder consults per kind.

type serverSection struct {
	ConfigSectionBase
	Host    string        `toml:"host"`
	Port    int           `toml:"port"`
	Timeout time.Duration `toml:"timeout"`
}

func (s *serverSection) ApplyDefaults() {
	s.Host = "localhost"
	s.Port = 8080
}

type appConfig struct {
	ConfigBase
	Name   string        `toml:"name"`
	Server serverSection `toml:"server"`
}

type profileSection struct {
	SettingsSectionBase
	Theme string `json:"theme"`
	Zoom  int    `json:"zoom"`
}

func (s *profileSection) ApplyDefaults() {
	s.Theme = "dark"
	s.Zoom = 100
}

type appSettings struct {
	SettingsBase
	Name    string         `json:"name"`
	Count   int            `json:"count"`
	Profile profileSection `json:"profile"`
}

func (s *appSettings) ApplyDefaults() {
	s.Name = "app"
	s.Count = 1
}

// resetState isolates a test from the process-wide singleton and path
// tables, before and after.
func resetState(t *testing.T) {
	t.Helper()
	Reset()
	t.Cleanup(Reset)
}

// capturedRecord is one advisory seen by the capture handler.
type capturedRecord struct {
	level slog.Level
	msg   string
	attrs map[string]any
}

// captureHandler collects every record regardless of level, so tests can
// assert on Debug advisories without configuring handler levels.
type captureHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	rec := capturedRecord{level: r.Level, msg: r.Message, attrs: make(map[string]any)}
	r.Attrs(func(a slog.Attr) bool {
		rec.attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.records = append(h.records, rec)
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) byMessage(msg string) []capturedRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []capturedRecord
	for _, r := range h.records {
		if r.msg == msg {
			out = append(out, r)
		}
	}
	return out
}

// captureAdvisories routes package advisories to a capture handler for the
// duration of the test.
func captureAdvisories(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	SetLogger(slog.New(h))
	t.Cleanup(func() { SetLogger(nil) })
	return h
}
