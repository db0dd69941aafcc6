package speechws

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/flow"
	"github.com/ashureev/salestwin/internal/session"
	"github.com/ashureev/salestwin/internal/speech"
)

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	// Recognition and Synthesis report which engines the browser has.
	Recognition      bool
	Synthesis        bool
	Lang             string
	SilenceThreshold time.Duration
	Clock            speech.Clock
	Logger           *slog.Logger
}

// Bridge is the speech side of one conversation view. Speech that pauses
// for the silence threshold is sent as the rep's message, and client
// replies are spoken when playback is enabled.
type Bridge struct {
	ctx      context.Context
	flow     *flow.Controller
	store    *session.Store
	send     func(Frame)
	logger   *slog.Logger
	synth    *remoteSynthesizer
	capture  *speech.Capture
	playback *speech.Playback
}

// NewBridge creates a bridge that writes frames with send. ctx bounds the
// flow calls made on the user's behalf.
func NewBridge(ctx context.Context, ctrl *flow.Controller, st *session.Store, send func(Frame), opts BridgeOptions) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		ctx:    ctx,
		flow:   ctrl,
		store:  st,
		send:   send,
		logger: logger.With("session_id", st.ID()),
	}

	var recognizer speech.Recognizer
	if opts.Recognition {
		recognizer = &remoteRecognizer{send: send}
	}
	b.capture = speech.NewCapture(recognizer, speech.CaptureOptions{
		OnSilence:        b.onSilence,
		SilenceThreshold: opts.SilenceThreshold,
		Lang:             opts.Lang,
		Clock:            opts.Clock,
		Logger:           b.logger,
	})

	var synth speech.Synthesizer
	if opts.Synthesis {
		b.synth = &remoteSynthesizer{send: send}
		synth = b.synth
	}
	b.playback = speech.NewPlayback(synth, b.logger)
	return b
}

// Capture returns the speech capture adapter.
func (b *Bridge) Capture() *speech.Capture {
	return b.capture
}

// Playback returns the speech playback adapter.
func (b *Bridge) Playback() *speech.Playback {
	return b.playback
}

// Handle applies one browser frame.
//
//nolint:gocyclo // One case per frame type.
func (b *Bridge) Handle(f Inbound) {
	switch f.Type {
	case FrameRecognitionResult:
		b.capture.HandleResult(f.Results)
		b.send(Frame{Type: FrameTranscript, Text: b.capture.Transcript()})
		return
	case FrameRecognitionError:
		b.capture.HandleError(errors.New(f.Error))
	case FrameRecognitionEnd:
		b.capture.HandleEnd()
	case FrameVoices:
		if b.synth == nil {
			return
		}
		b.synth.setVoices(f.Voices)
		b.playback.HandleVoicesChanged()
	case FrameUtteranceStart:
		b.playback.HandleUtteranceStart(f.ID)
	case FrameUtteranceEnd:
		b.playback.HandleUtteranceEnd(f.ID)
	case FrameUtteranceError:
		b.playback.HandleUtteranceError(f.ID, errors.New(f.Error))
	case FrameCommand:
		if !b.command(f.Name) {
			return
		}
	case FramePing:
		b.send(Frame{Type: FramePong})
		return
	default:
		b.logger.Debug("Unknown speech frame", "type", f.Type)
		b.send(Frame{Type: FrameError, Error: "unknown frame type"})
		return
	}
	b.SendState()
}

func (b *Bridge) command(name string) bool {
	switch name {
	case CommandStartListening:
		b.capture.Start()
	case CommandStopListening:
		b.capture.Stop()
	case CommandResetTranscript:
		b.capture.ResetTranscript()
	case CommandToggleTTS:
		b.playback.Toggle()
	case CommandStopSpeaking:
		b.playback.Stop()
	default:
		b.send(Frame{Type: FrameError, Error: "unknown command"})
		return false
	}
	return true
}

// SendState writes the current adapter state.
func (b *Bridge) SendState() {
	pb := b.playback.State()
	b.send(Frame{
		Type: FrameState,
		Capture: &CaptureStatus{
			Supported:  b.capture.Supported(),
			State:      b.capture.State(),
			Transcript: b.capture.Transcript(),
		},
		Playback: &pb,
	})
}

// Close stops listening and playback and cancels a pending silence.
func (b *Bridge) Close() {
	b.capture.Stop()
	b.playback.Stop()
}

func (b *Bridge) onSilence(transcript string) {
	if b.ctx.Err() != nil {
		return
	}
	b.send(Frame{Type: FrameSilence, Text: transcript})

	res, err := b.flow.SendMessage(b.ctx, b.store, transcript, b.onReply)
	b.capture.ResetTranscript()
	if err != nil {
		if to, ok := flow.AsRedirect(err); ok {
			b.send(Frame{Type: FrameError, Error: "redirect", Redirect: string(to)})
			return
		}
		b.logger.Warn("Failed to submit spoken message", "error", err)
		b.send(Frame{Type: FrameError, Error: err.Error()})
		return
	}
	b.send(Frame{Type: FrameMessage, Message: &res.Message, Progress: res.Progress})
	b.SendState()
}

func (b *Bridge) onReply(msg domain.Message) {
	b.send(Frame{Type: FrameReply, Message: &msg})
	b.playback.Speak(msg.Content)
}
