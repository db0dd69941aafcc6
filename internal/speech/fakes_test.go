package speech

import (
	"errors"
	"sort"
	"sync"
	"time"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

// fakeClock runs timers only when Advance moves past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= target {
			t.fired = true
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	c.now = target
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

type fakeRecognizer struct {
	configured   RecognizerConfig
	configureErr error
	startErr     error
	starts       int
	stops        int
	// onStop runs inside Stop, standing in for a slow engine.
	onStop func()
}

func (r *fakeRecognizer) Configure(cfg RecognizerConfig) error {
	r.configured = cfg
	return r.configureErr
}

func (r *fakeRecognizer) Start() error {
	r.starts++
	return r.startErr
}

func (r *fakeRecognizer) Stop() error {
	r.stops++
	if r.onStop != nil {
		r.onStop()
	}
	return nil
}

type fakeSynth struct {
	mu         sync.Mutex
	voices     []Voice
	utterances []Utterance
	cancels    int
	speakErr   error
}

func (s *fakeSynth) Voices() []Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voices
}

func (s *fakeSynth) Speak(u Utterance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speakErr != nil {
		return s.speakErr
	}
	s.utterances = append(s.utterances, u)
	return nil
}

func (s *fakeSynth) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
}

func (s *fakeSynth) last() Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.utterances[len(s.utterances)-1]
}

var errEngine = errors.New("engine exploded")
