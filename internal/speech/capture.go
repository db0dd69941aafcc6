package speech

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultSilenceThreshold is how long the transcript must stay unchanged
// before the speaker is considered done.
const DefaultSilenceThreshold = 2000 * time.Millisecond

// DefaultLocale is the recognition language.
const DefaultLocale = "pl-PL"

// Segment is one recognition result, interim or final.
type Segment struct {
	Transcript string `json:"transcript"`
	Final      bool   `json:"final"`
}

// RecognizerConfig is applied to the engine once, before the first start.
type RecognizerConfig struct {
	Continuous     bool   `json:"continuous"`
	InterimResults bool   `json:"interimResults"`
	Lang           string `json:"lang"`
}

// Recognizer is a continuous speech-to-text engine. The engine reports back
// through Capture.HandleResult, HandleError and HandleEnd.
type Recognizer interface {
	Configure(cfg RecognizerConfig) error
	Start() error
	Stop() error
}

// CaptureState is the listening lifecycle.
type CaptureState string

const (
	CaptureIdle      CaptureState = "idle"
	CaptureListening CaptureState = "listening"
)

// CaptureOptions configures a Capture.
type CaptureOptions struct {
	// OnSilence runs once per pause, with the transcript at that moment.
	OnSilence        func(transcript string)
	SilenceThreshold time.Duration
	Lang             string
	Clock            Clock
	Logger           *slog.Logger
}

// Capture turns a stream of cumulative recognition results into a running
// transcript and a debounced silence signal.
type Capture struct {
	engine    Recognizer
	supported bool
	onSilence func(string)
	threshold time.Duration
	clock     Clock
	logger    *slog.Logger

	mu         sync.Mutex
	state      CaptureState
	transcript string
	last       string
	timer      Timer
	timerGen   uint64
}

// NewCapture wraps engine. A nil engine, or one that rejects its
// configuration, yields an unsupported Capture whose methods do nothing.
func NewCapture(engine Recognizer, opts CaptureOptions) *Capture {
	c := &Capture{
		engine:    engine,
		onSilence: opts.OnSilence,
		threshold: opts.SilenceThreshold,
		clock:     opts.Clock,
		logger:    opts.Logger,
		state:     CaptureIdle,
	}
	if c.threshold <= 0 {
		c.threshold = DefaultSilenceThreshold
	}
	if c.clock == nil {
		c.clock = SystemClock
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	lang := opts.Lang
	if lang == "" {
		lang = DefaultLocale
	}

	if engine != nil {
		err := engine.Configure(RecognizerConfig{Continuous: true, InterimResults: true, Lang: lang})
		if err != nil {
			c.logger.Warn("Speech recognition unavailable", "error", err)
		} else {
			c.supported = true
		}
	}
	return c
}

// Supported reports whether a speech-to-text engine is available.
func (c *Capture) Supported() bool {
	return c.supported
}

// State returns the current lifecycle state.
func (c *Capture) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsListening returns true while capture is running.
func (c *Capture) IsListening() bool {
	return c.State() == CaptureListening
}

// Transcript returns the text recognised so far.
func (c *Capture) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// Start begins capture. Failures are logged and leave the adapter idle.
func (c *Capture) Start() {
	if !c.supported {
		c.logger.Debug("Speech recognition start ignored, engine unsupported")
		return
	}
	if err := c.engine.Start(); err != nil {
		c.logger.Error("Error starting speech recognition", "error", err)
		return
	}

	c.mu.Lock()
	c.state = CaptureListening
	c.last = ""
	c.mu.Unlock()
}

// Stop ends capture. The pending silence timer is cancelled before the
// engine is told to stop, so no silence can fire once Stop is called.
func (c *Capture) Stop() {
	if !c.supported {
		return
	}
	c.mu.Lock()
	c.state = CaptureIdle
	c.cancelTimerLocked()
	c.mu.Unlock()

	if err := c.engine.Stop(); err != nil {
		c.logger.Warn("Error stopping speech recognition", "error", err)
	}
}

// ResetTranscript clears the transcript without stopping capture.
func (c *Capture) ResetTranscript() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = ""
	c.last = ""
	c.cancelTimerLocked()
}

// HandleResult receives the engine's full current result list. The
// transcript is recomputed from every segment, not appended, because the
// engine reports cumulative interim state. Results that arrive while idle
// belong to a finished listening session and are dropped.
func (c *Capture) HandleResult(segments []Segment) {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Transcript)
	}
	current := b.String()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CaptureListening {
		return
	}
	c.transcript = current

	if c.onSilence == nil || current == c.last {
		return
	}
	c.last = current
	c.cancelTimerLocked()
	if strings.TrimSpace(current) != "" {
		c.armTimerLocked()
	}
}

// HandleError records an engine failure. The adapter goes idle and does
// not retry.
func (c *Capture) HandleError(err error) {
	c.logger.Error("Speech recognition error", "error", err)
	c.mu.Lock()
	c.state = CaptureIdle
	c.mu.Unlock()
}

// HandleEnd records the engine closing its stream.
func (c *Capture) HandleEnd() {
	c.mu.Lock()
	c.state = CaptureIdle
	c.mu.Unlock()
}

func (c *Capture) armTimerLocked() {
	c.timerGen++
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(c.threshold, func() {
		c.fire(gen)
	})
}

func (c *Capture) cancelTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fire runs the silence callback unless the timer was superseded.
func (c *Capture) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	transcript := c.transcript
	c.mu.Unlock()

	c.onSilence(transcript)
}
