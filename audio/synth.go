// Package audio plays short procedural blips for gameplay sounds.
package audio

import (
	"encoding/binary"
	"math"

	"github.com/charmbracelet/log"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/boneyard/ecs/component"
)

const SampleRate = 44100

type waveform uint8

const (
	waveSquare waveform = iota
	waveTriangle
	waveNoise
)

// voice is a frequency sweep from Start to End Hz over Duration seconds.
type voice struct {
	Start, End float64
	Duration   float64
	Wave       waveform
	Volume     float64
}

var voices = map[component.SoundKind]voice{
	component.SoundJump:       {Start: 320, End: 640, Duration: 0.12, Wave: waveSquare, Volume: 0.25},
	component.SoundWalk:       {Start: 90, End: 70, Duration: 0.04, Wave: waveNoise, Volume: 0.12},
	component.SoundHurt:       {Start: 220, End: 110, Duration: 0.2, Wave: waveSquare, Volume: 0.3},
	component.SoundDeath:      {Start: 300, End: 60, Duration: 0.6, Wave: waveTriangle, Volume: 0.35},
	component.SoundCoin:       {Start: 880, End: 1320, Duration: 0.1, Wave: waveSquare, Volume: 0.2},
	component.SoundKey:        {Start: 660, End: 990, Duration: 0.25, Wave: waveTriangle, Volume: 0.3},
	component.SoundDoor:       {Start: 150, End: 300, Duration: 0.35, Wave: waveTriangle, Volume: 0.3},
	component.SoundEnemyDeath: {Start: 500, End: 120, Duration: 0.18, Wave: waveNoise, Volume: 0.25},
	component.SoundShoot:      {Start: 700, End: 400, Duration: 0.08, Wave: waveSquare, Volume: 0.15},
}

// Tone renders kind as 16-bit little endian stereo PCM. Unknown kinds
// render nothing.
func Tone(kind component.SoundKind, sampleRate int) []byte {
	v, ok := voices[kind]
	if !ok || sampleRate <= 0 {
		return nil
	}
	n := int(v.Duration * float64(sampleRate))
	out := make([]byte, n*4)
	phase := 0.0
	noise := uint32(0x1234567)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := v.Start + (v.End-v.Start)*t
		phase += freq / float64(sampleRate)
		phase -= math.Floor(phase)

		var s float64
		switch v.Wave {
		case waveSquare:
			s = 1
			if phase >= 0.5 {
				s = -1
			}
		case waveTriangle:
			s = 4*math.Abs(phase-0.5) - 1
		case waveNoise:
			noise ^= noise << 13
			noise ^= noise >> 17
			noise ^= noise << 5
			s = float64(noise)/float64(math.MaxUint32)*2 - 1
		}
		// linear fade out
		s *= v.Volume * (1 - t)
		sample := uint16(int16(s * math.MaxInt16))
		binary.LittleEndian.PutUint16(out[i*4:], sample)
		binary.LittleEndian.PutUint16(out[i*4+2:], sample)
	}
	return out
}

// Synth owns the audio context and one player per sound.
type Synth struct {
	ctx     *ebaudio.Context
	players map[component.SoundKind]*ebaudio.Player
	muted   bool
}

// NewSynth creates the process audio context. ebiten allows only one.
func NewSynth(muted bool) *Synth {
	s := &Synth{
		ctx:     ebaudio.NewContext(SampleRate),
		players: make(map[component.SoundKind]*ebaudio.Player),
		muted:   muted,
	}
	for _, kind := range component.SoundKinds() {
		if pcm := Tone(kind, SampleRate); len(pcm) > 0 {
			s.players[kind] = s.ctx.NewPlayerFromBytes(pcm)
		}
	}
	return s
}

func (s *Synth) SetMuted(muted bool) { s.muted = muted }

func (s *Synth) Muted() bool { return s.muted }

// Play restarts the sound for kind.
func (s *Synth) Play(kind component.SoundKind) {
	if s == nil || s.muted {
		return
	}
	p, ok := s.players[kind]
	if !ok {
		log.Debug("no voice for sound", "sound", kind)
		return
	}
	if err := p.Rewind(); err != nil {
		log.Warn("rewind sound", "sound", kind, "err", err)
		return
	}
	p.Play()
}
