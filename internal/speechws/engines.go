package speechws

import (
	"slices"
	"sync"

	"github.com/ashureev/salestwin/internal/speech"
)

// remoteRecognizer drives the browser's recognition engine with engine frames.
type remoteRecognizer struct {
	send func(Frame)
}

func (r *remoteRecognizer) Configure(cfg speech.RecognizerConfig) error {
	r.send(Frame{Type: FrameEngine, Action: ActionConfigure, Config: &cfg})
	return nil
}

func (r *remoteRecognizer) Start() error {
	r.send(Frame{Type: FrameEngine, Action: ActionStart})
	return nil
}

func (r *remoteRecognizer) Stop() error {
	r.send(Frame{Type: FrameEngine, Action: ActionStop})
	return nil
}

// remoteSynthesizer drives the browser's synthesis engine. The voice list
// is whatever the browser last reported.
type remoteSynthesizer struct {
	send func(Frame)

	mu     sync.Mutex
	voices []speech.Voice
}

func (s *remoteSynthesizer) setVoices(voices []speech.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voices = slices.Clone(voices)
}

func (s *remoteSynthesizer) Voices() []speech.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.voices)
}

func (s *remoteSynthesizer) Speak(u speech.Utterance) error {
	s.send(Frame{Type: FrameEngine, Action: ActionSpeak, Utterance: &u})
	return nil
}

func (s *remoteSynthesizer) Cancel() {
	s.send(Frame{Type: FrameEngine, Action: ActionCancel})
}
