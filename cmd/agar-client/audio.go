package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// audioCues plays short tones for fire and consume. A nil *audioCues is
// silent.
type audioCues struct{}

func newAudioCues() (*audioCues, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &audioCues{}, nil
}

func (a *audioCues) fire() { a.tone(440, 80*time.Millisecond) }
func (a *audioCues) consume() { a.tone(880, 30*time.Millisecond) }

func (a *audioCues) tone(freq float64, d time.Duration) {
	if a == nil {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}
