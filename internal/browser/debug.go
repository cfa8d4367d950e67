package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"

	"gdoscore/config"
	"gdoscore/logger"
)

// TraceEvent is one recorded step of a debug session
type TraceEvent struct {
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Detail string    `json:"detail"`
}

// DebugRecorder captures page snapshots and a step trace when debug
// mode is on. Every method is a no-op otherwise, so call sites never
// need to check the flag.
type DebugRecorder struct {
	cfg *config.Config
	log *logger.Logger

	mu     sync.Mutex
	events []TraceEvent
}

func NewDebugRecorder(cfg *config.Config) *DebugRecorder {
	return &DebugRecorder{
		cfg: cfg,
		log: logger.ForComponent("debug"),
	}
}

// Trace appends one event to the session trace
func (d *DebugRecorder) Trace(action, detail string) {
	if !d.cfg.Debug {
		return
	}
	d.mu.Lock()
	d.events = append(d.events, TraceEvent{Time: time.Now(), Action: action, Detail: detail})
	d.mu.Unlock()
}

// Snapshot writes a screenshot and the page HTML named after the
// reason, e.g. login_failed_20240503_141502.png
func (d *DebugRecorder) Snapshot(page *rod.Page, reason string) {
	if !d.cfg.Debug || page == nil {
		return
	}
	stamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_%s", reason, stamp)

	if err := os.MkdirAll(d.cfg.DebugDir, 0o755); err != nil {
		d.log.Warn().Err(err).Msg("Failed to create debug directory")
		return
	}

	if shot, err := page.Screenshot(true, nil); err != nil {
		d.log.Warn().Err(err).Str("reason", reason).Msg("Screenshot failed")
	} else {
		path := filepath.Join(d.cfg.DebugDir, base+".png")
		if err := os.WriteFile(path, shot, 0o644); err != nil {
			d.log.Warn().Err(err).Str("path", path).Msg("Failed to write screenshot")
		} else {
			d.log.Debug().Str("path", path).Msg("Saved screenshot")
		}
	}

	if html, err := page.HTML(); err != nil {
		d.log.Warn().Err(err).Str("reason", reason).Msg("HTML dump failed")
	} else {
		path := filepath.Join(d.cfg.DebugDir, base+".html")
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			d.log.Warn().Err(err).Str("path", path).Msg("Failed to write page HTML")
		}
	}

	d.Trace("snapshot", reason)
}

// Flush writes the collected trace to disk. Called once at session
// teardown.
func (d *DebugRecorder) Flush() {
	if !d.cfg.Debug {
		return
	}
	d.mu.Lock()
	events := d.events
	d.events = nil
	d.mu.Unlock()
	if len(events) == 0 {
		return
	}

	if err := os.MkdirAll(d.cfg.DebugDir, 0o755); err != nil {
		d.log.Warn().Err(err).Msg("Failed to create debug directory")
		return
	}
	path := filepath.Join(d.cfg.DebugDir, fmt.Sprintf("trace_%s.json", time.Now().Format("20060102_150405")))
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		d.log.Warn().Err(err).Msg("Failed to encode trace")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		d.log.Warn().Err(err).Str("path", path).Msg("Failed to write trace")
		return
	}
	d.log.Info().Str("path", path).Int("events", len(events)).Msg("Flushed debug trace")
}
