package tui

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// soundPlayer はヒット時と全発見時の効果音を鳴らす
// 初期化に失敗した場合は何も鳴らさない
type soundPlayer struct {
	enabled bool
}

func newSoundPlayer(enable bool) (*soundPlayer, error) {
	p := &soundPlayer{}
	if !enable {
		return p, nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return p, err
	}
	p.enabled = true
	return p, nil
}

func (p *soundPlayer) tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return beep.Silence(0)
	}
	return beep.Take(sampleRate.N(d), sine)
}

func (p *soundPlayer) playHit() {
	if p == nil || !p.enabled {
		return
	}
	speaker.Play(p.tone(880, 80*time.Millisecond))
}

func (p *soundPlayer) playComplete() {
	if p == nil || !p.enabled {
		return
	}
	speaker.Play(beep.Seq(
		p.tone(660, 100*time.Millisecond),
		p.tone(880, 100*time.Millisecond),
		p.tone(1320, 200*time.Millisecond),
	))
}

func (p *soundPlayer) close() {
	if p != nil && p.enabled {
		speaker.Close()
		p.enabled = false
	}
}
