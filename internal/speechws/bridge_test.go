package speechws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/flow"
	"github.com/ashureev/salestwin/internal/session"
	"github.com/ashureev/salestwin/internal/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pendingTimer struct {
	mu      *sync.Mutex
	stopped bool
}

func (t *pendingTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

// manualClock keeps scheduled callbacks until Fire runs the live ones.
type manualClock struct {
	mu      sync.Mutex
	pending []func()
	timers  []*pendingTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) speech.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &pendingTimer{mu: &c.mu}
	c.pending = append(c.pending, f)
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Fire() {
	c.mu.Lock()
	var due []func()
	for i, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			due = append(due, c.pending[i])
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) send(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *frameRecorder) ofType(typ string) []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Frame
	for _, f := range r.frames {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func (r *frameRecorder) engine(action string) []Frame {
	var out []Frame
	for _, f := range r.ofType(FrameEngine) {
		if f.Action == action {
			out = append(out, f)
		}
	}
	return out
}

func (r *frameRecorder) lastState(t *testing.T) Frame {
	t.Helper()
	states := r.ofType(FrameState)
	require.NotEmpty(t, states)
	return states[len(states)-1]
}

type bridgeHarness struct {
	bridge *Bridge
	store  *session.Store
	clock  *manualClock
	frames *frameRecorder
}

func newBridgeHarness(t *testing.T, opts BridgeOptions) *bridgeHarness {
	t.Helper()
	ctrl := flow.NewController(flow.Options{
		Catalog:   catalog.Default(),
		AfterFunc: func(_ time.Duration, f func()) { f() },
	})
	st := session.NewStoreWithID("tab-1")
	st.SetCurrentConfig(&domain.TrainingConfig{
		SelectedOffers: []string{"2"},
		ClientType:     domain.DefaultClientType,
		Difficulty:     domain.DefaultDifficulty,
	})
	clock := &manualClock{}
	frames := &frameRecorder{}
	opts.Clock = clock
	b := NewBridge(context.Background(), ctrl, st, frames.send, opts)
	return &bridgeHarness{bridge: b, store: st, clock: clock, frames: frames}
}

func TestBridge_ConfiguresRecognizer(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true, Lang: "pl-PL"})

	configure := h.frames.engine(ActionConfigure)
	require.Len(t, configure, 1)
	assert.Equal(t, speech.RecognizerConfig{Continuous: true, InterimResults: true, Lang: "pl-PL"}, *configure[0].Config)
	assert.True(t, h.bridge.Capture().Supported())
}

func TestBridge_NoEnginesIsUnsupported(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{})

	assert.False(t, h.bridge.Capture().Supported())
	assert.False(t, h.bridge.Playback().Supported())

	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})
	assert.Empty(t, h.frames.ofType(FrameEngine))
	assert.Equal(t, speech.CaptureIdle, h.frames.lastState(t).Capture.State)
}

func TestBridge_CommandsDriveEngines(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true, Synthesis: true})

	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})
	assert.Len(t, h.frames.engine(ActionStart), 1)
	assert.Equal(t, speech.CaptureListening, h.frames.lastState(t).Capture.State)

	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandToggleTTS})
	assert.True(t, h.frames.lastState(t).Playback.Enabled)

	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStopListening})
	assert.Len(t, h.frames.engine(ActionStop), 1)
	assert.Equal(t, speech.CaptureIdle, h.frames.lastState(t).Capture.State)

	h.bridge.Handle(Inbound{Type: FrameCommand, Name: "dance"})
	errs := h.frames.ofType(FrameError)
	require.Len(t, errs, 1)
	assert.Equal(t, "unknown command", errs[0].Error)
}

func TestBridge_TranscriptFollowsResults(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true})
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})

	h.bridge.Handle(Inbound{Type: FrameRecognitionResult, Results: []speech.Segment{
		{Transcript: "Dzień dobry, ", Final: true},
		{Transcript: "mam ofertę"},
	}})

	transcripts := h.frames.ofType(FrameTranscript)
	require.Len(t, transcripts, 1)
	assert.Equal(t, "Dzień dobry, mam ofertę", transcripts[0].Text)
}

func TestBridge_SilenceSubmitsMessageAndSpeaksReply(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true, Synthesis: true})
	h.bridge.Handle(Inbound{Type: FrameVoices, Voices: []speech.Voice{{Name: "Google US English", Lang: "en-US"}}})
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandToggleTTS})
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})
	h.bridge.Handle(Inbound{Type: FrameRecognitionResult, Results: []speech.Segment{{Transcript: "Chciałbym przedstawić ofertę"}}})

	h.clock.Fire()

	silence := h.frames.ofType(FrameSilence)
	require.Len(t, silence, 1)
	assert.Equal(t, "Chciałbym przedstawić ofertę", silence[0].Text)

	msgs := h.frames.ofType(FrameMessage)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MessageRoleRep, msgs[0].Message.Role)
	assert.Equal(t, 25, msgs[0].Progress)

	replies := h.frames.ofType(FrameReply)
	require.Len(t, replies, 1)
	assert.Equal(t, domain.MessageRoleClient, replies[0].Message.Role)

	speak := h.frames.engine(ActionSpeak)
	require.Len(t, speak, 1)
	assert.Equal(t, replies[0].Message.Content, speak[0].Utterance.Text)
	require.NotNil(t, speak[0].Utterance.Voice)
	assert.Equal(t, "Google US English", speak[0].Utterance.Voice.Name)

	assert.Empty(t, h.bridge.Capture().Transcript(), "transcript is reset after submit")
	assert.True(t, h.bridge.Capture().IsListening())

	conv := h.store.Conversation()
	require.NotNil(t, conv)
	assert.Len(t, conv.Messages, 3)
}

func TestBridge_SilenceWithoutOffersRedirects(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true})
	h.store.SetCurrentConfig(nil)
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})
	h.bridge.Handle(Inbound{Type: FrameRecognitionResult, Results: []speech.Segment{{Transcript: "halo"}}})

	h.clock.Fire()

	errs := h.frames.ofType(FrameError)
	require.Len(t, errs, 1)
	assert.Equal(t, "offers", errs[0].Redirect)
	assert.Empty(t, h.frames.ofType(FrameMessage))
}

func TestBridge_UtteranceEventsReachPlayback(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Synthesis: true})
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandToggleTTS})
	h.bridge.Playback().Speak("Dzień dobry")
	id := h.frames.engine(ActionSpeak)[0].Utterance.ID

	h.bridge.Handle(Inbound{Type: FrameUtteranceStart, ID: id})
	assert.True(t, h.frames.lastState(t).Playback.Speaking)

	h.bridge.Handle(Inbound{Type: FrameUtteranceEnd, ID: id})
	assert.False(t, h.frames.lastState(t).Playback.Speaking)
}

func TestBridge_RecognitionEndGoesIdle(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true})
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})

	h.bridge.Handle(Inbound{Type: FrameRecognitionError, Error: "not-allowed"})
	assert.Equal(t, speech.CaptureIdle, h.frames.lastState(t).Capture.State)
	assert.Len(t, h.frames.engine(ActionStart), 1, "no automatic restart")
}

func TestBridge_CloseCancelsPendingSilence(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{Recognition: true})
	h.bridge.Handle(Inbound{Type: FrameCommand, Name: CommandStartListening})
	h.bridge.Handle(Inbound{Type: FrameRecognitionResult, Results: []speech.Segment{{Transcript: "halo"}}})

	h.bridge.Close()
	h.clock.Fire()

	assert.Empty(t, h.frames.ofType(FrameSilence))
	assert.Nil(t, h.store.Conversation())
}

func TestBridge_PingAndUnknown(t *testing.T) {
	h := newBridgeHarness(t, BridgeOptions{})

	h.bridge.Handle(Inbound{Type: FramePing})
	assert.Len(t, h.frames.ofType(FramePong), 1)

	h.bridge.Handle(Inbound{Type: "bogus"})
	assert.Len(t, h.frames.ofType(FrameError), 1)
}
