// Package speechws bridges the browser's speech engines to the speech
// adapters over a WebSocket. The browser hosts recognition and synthesis;
// the server owns transcript state, silence detection and the flow.
package speechws

import (
	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/speech"
)

// Inbound frame types, browser to server.
const (
	FrameRecognitionResult = "recognition_result"
	FrameRecognitionError  = "recognition_error"
	FrameRecognitionEnd    = "recognition_end"
	FrameVoices            = "voices"
	FrameUtteranceStart    = "utterance_start"
	FrameUtteranceEnd      = "utterance_end"
	FrameUtteranceError    = "utterance_error"
	FrameCommand           = "command"
	FramePing              = "ping"
)

// Outbound frame types, server to browser.
const (
	FrameEngine     = "engine"
	FrameTranscript = "transcript"
	FrameSilence    = "silence"
	FrameMessage    = "message"
	FrameReply      = "reply"
	FrameState      = "state"
	FrameError      = "error"
	FramePong       = "pong"
)

// Engine actions carried by engine frames.
const (
	ActionConfigure = "configure"
	ActionStart     = "start"
	ActionStop      = "stop"
	ActionSpeak     = "speak"
	ActionCancel    = "cancel"
)

// Commands the user can issue from the conversation view.
const (
	CommandStartListening  = "start_listening"
	CommandStopListening   = "stop_listening"
	CommandResetTranscript = "reset_transcript"
	CommandToggleTTS       = "toggle_tts"
	CommandStopSpeaking    = "stop_speaking"
)

// Inbound is a frame sent by the browser.
type Inbound struct {
	Type    string           `json:"type"`
	Results []speech.Segment `json:"results,omitempty"`
	Error   string           `json:"error,omitempty"`
	Voices  []speech.Voice   `json:"voices,omitempty"`
	ID      string           `json:"id,omitempty"`
	Name    string           `json:"name,omitempty"`
}

// CaptureStatus is the capture half of a state frame.
type CaptureStatus struct {
	Supported  bool                `json:"supported"`
	State      speech.CaptureState `json:"state"`
	Transcript string              `json:"transcript"`
}

// Frame is a frame sent to the browser. Only the fields of its type are set.
type Frame struct {
	Type      string                   `json:"type"`
	Action    string                   `json:"action,omitempty"`
	Config    *speech.RecognizerConfig `json:"config,omitempty"`
	Utterance *speech.Utterance        `json:"utterance,omitempty"`
	Text      string                   `json:"text,omitempty"`
	Message   *domain.Message          `json:"message,omitempty"`
	Progress  int                      `json:"progress,omitempty"`
	Capture   *CaptureStatus           `json:"capture,omitempty"`
	Playback  *speech.PlaybackState    `json:"playback,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Redirect  string                   `json:"redirect,omitempty"`
}
