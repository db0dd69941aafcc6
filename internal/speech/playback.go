package speech

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Voice is one synthesis voice offered by the engine.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// Utterance is a single request to the synthesis engine.
type Utterance struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Voice  *Voice  `json:"voice,omitempty"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// Synthesizer is a text-to-speech engine. Progress comes back through
// Playback.HandleUtteranceStart, HandleUtteranceEnd and HandleUtteranceError.
type Synthesizer interface {
	Voices() []Voice
	Speak(u Utterance) error
	Cancel()
}

// PlaybackState is a snapshot of the playback flags.
type PlaybackState struct {
	Supported bool   `json:"supported"`
	Enabled   bool   `json:"enabled"`
	Speaking  bool   `json:"speaking"`
	Voice     *Voice `json:"voice,omitempty"`
}

// Playback speaks client replies aloud when enabled.
type Playback struct {
	engine Synthesizer
	logger *slog.Logger

	mu       sync.Mutex
	enabled  bool
	speaking bool
	voice    *Voice
	current  string
}

// NewPlayback wraps engine. Playback starts disabled. A nil engine yields an
// unsupported Playback.
func NewPlayback(engine Synthesizer, logger *slog.Logger) *Playback {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Playback{engine: engine, logger: logger}
	if engine != nil {
		p.voice = selectVoice(engine.Voices())
	}
	return p
}

var english = language.English

// selectVoice prefers an English "Google" voice, then any English voice,
// then the first one listed.
func selectVoice(voices []Voice) *Voice {
	if len(voices) == 0 {
		return nil
	}
	var firstEnglish *Voice
	for i := range voices {
		v := voices[i]
		if !isEnglish(v.Lang) {
			continue
		}
		if strings.Contains(v.Name, "Google") {
			return &v
		}
		if firstEnglish == nil {
			firstEnglish = &v
		}
	}
	if firstEnglish != nil {
		return firstEnglish
	}
	v := voices[0]
	return &v
}

func isEnglish(tag string) bool {
	t, err := language.Parse(tag)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(tag), "en")
	}
	base, _ := t.Base()
	want, _ := english.Base()
	return base == want
}

// Supported reports whether a text-to-speech engine is available.
func (p *Playback) Supported() bool {
	return p.engine != nil
}

// Enabled reports whether replies are spoken.
func (p *Playback) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Speaking reports whether an utterance is in progress.
func (p *Playback) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// State returns a snapshot of the playback flags.
func (p *Playback) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := PlaybackState{
		Supported: p.engine != nil,
		Enabled:   p.enabled,
		Speaking:  p.speaking,
	}
	if p.voice != nil {
		v := *p.voice
		st.Voice = &v
	}
	return st
}

// HandleVoicesChanged re-runs voice selection against the engine's list.
func (p *Playback) HandleVoicesChanged() {
	if p.engine == nil {
		return
	}
	voice := selectVoice(p.engine.Voices())
	p.mu.Lock()
	p.voice = voice
	p.mu.Unlock()
}

// Speak cancels whatever is playing and queues text. It does nothing when
// playback is disabled or unsupported.
func (p *Playback) Speak(text string) {
	if p.engine == nil {
		return
	}
	p.mu.Lock()
	if !p.enabled {
		p.mu.Unlock()
		return
	}
	u := Utterance{
		ID:     uuid.NewString(),
		Text:   text,
		Rate:   1.0,
		Pitch:  1.0,
		Volume: 1.0,
	}
	if p.voice != nil {
		v := *p.voice
		u.Voice = &v
	}
	p.current = u.ID
	p.mu.Unlock()

	p.engine.Cancel()
	if err := p.engine.Speak(u); err != nil {
		p.logger.Error("Speech synthesis failed", "error", err)
		p.mu.Lock()
		if p.current == u.ID {
			p.current = ""
			p.speaking = false
		}
		p.mu.Unlock()
	}
}

// Toggle flips the enabled flag. Disabling stops current playback.
func (p *Playback) Toggle() bool {
	p.mu.Lock()
	p.enabled = !p.enabled
	enabled := p.enabled
	if !enabled {
		p.speaking = false
		p.current = ""
	}
	p.mu.Unlock()

	if !enabled && p.engine != nil {
		p.engine.Cancel()
	}
	return enabled
}

// Stop cancels current playback and leaves the enabled flag alone.
func (p *Playback) Stop() {
	if p.engine == nil {
		return
	}
	p.mu.Lock()
	p.speaking = false
	p.current = ""
	p.mu.Unlock()
	p.engine.Cancel()
}

// HandleUtteranceStart marks the current utterance as playing.
func (p *Playback) HandleUtteranceStart(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == p.current && id != "" {
		p.speaking = true
	}
}

// HandleUtteranceEnd clears speaking when id is the current utterance.
func (p *Playback) HandleUtteranceEnd(id string) {
	p.finish(id)
}

// HandleUtteranceError logs the failure and ends the utterance.
func (p *Playback) HandleUtteranceError(id string, err error) {
	p.logger.Warn("Utterance failed", "utterance_id", id, "error", err)
	p.finish(id)
}

func (p *Playback) finish(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == p.current && id != "" {
		p.speaking = false
		p.current = ""
	}
}
