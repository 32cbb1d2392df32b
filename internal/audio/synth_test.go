package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func TestOscillatorSine(t *testing.T) {
	rate := beep.SampleRate(44100)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)

	samples := make([][2]float64, 100)
	n, ok := osc.Stream(samples)
	if !ok || n != 100 {
		t.Fatalf("expected 100 samples, got %d (ok=%v)", n, ok)
	}
	for i := 0; i < n; i++ {
		if samples[i][0] < -1 || samples[i][0] > 1 {
			t.Errorf("sample %d out of range: %f", i, samples[i][0])
		}
	}
	if osc.Err() != nil {
		t.Errorf("unexpected error: %v", osc.Err())
	}
}

func TestOscillatorStopsAfterDuration(t *testing.T) {
	rate := beep.SampleRate(1000)
	osc := NewOscillator(100, 50*time.Millisecond, WaveSquare, rate)

	total := 0
	buf := make([][2]float64, 16)
	for {
		n, ok := osc.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if total != 50 {
		t.Errorf("expected 50 samples, got %d", total)
	}
}

func TestRestIsSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	buf := make([][2]float64, 20)
	n, _ := rest(20*time.Millisecond, rate).Stream(buf)
	for i := 0; i < n; i++ {
		if buf[i][0] != 0 || buf[i][1] != 0 {
			t.Fatalf("rest sample %d not silent", i)
		}
	}
}

func TestEnvelopeStartsFromSilence(t *testing.T) {
	rate := beep.SampleRate(1000)
	d := 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, d, WaveSquare, rate), d, 10*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, 100)
	n, _ := env.Stream(buf)
	if n != 100 {
		t.Fatalf("expected 100 samples, got %d", n)
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample should be silent, got %f", buf[0][0])
	}
	if buf[50][0] != 1 {
		t.Errorf("sustain sample should be full volume, got %f", buf[50][0])
	}
	if buf[99][0] >= buf[90][0] {
		t.Errorf("release should decay: %f >= %f", buf[99][0], buf[90][0])
	}
}

func TestRenderProducesStereo16Bit(t *testing.T) {
	rate := beep.SampleRate(1000)
	pcm := Render(NewOscillator(100, 20*time.Millisecond, WaveSine, rate))
	if len(pcm) != 20*4 {
		t.Errorf("expected %d bytes, got %d", 20*4, len(pcm))
	}
}

func TestAllSoundsAreFinite(t *testing.T) {
	for _, st := range AllSounds {
		s := NewSound(st, SampleRate)
		if s == nil {
			t.Fatalf("%s: nil streamer", st)
		}
		pcm := Render(s)
		if len(pcm) == 0 {
			t.Errorf("%s: rendered no audio", st)
		}
		if len(pcm) > SampleRate.N(2*time.Second)*4 {
			t.Errorf("%s: effect longer than 2s", st)
		}
	}
	if NewSound(SoundType(99), SampleRate) != nil {
		t.Error("unknown sound should be nil")
	}
}

func TestRepeatLoopsBackgroundMusic(t *testing.T) {
	rate := beep.SampleRate(1000)
	loopLen := len(Render(NewBackgroundLoop(rate))) / 4

	r := Repeat(func() beep.Streamer { return NewBackgroundLoop(rate) })
	buf := make([][2]float64, loopLen*2+10)
	n, ok := r.Stream(buf)
	if !ok || n != len(buf) {
		t.Errorf("repeat should fill the buffer, got %d (ok=%v)", n, ok)
	}
}

func TestRepeatEmptyFactoryTerminates(t *testing.T) {
	r := Repeat(func() beep.Streamer { return beep.Seq() })
	n, ok := r.Stream(make([][2]float64, 10))
	if n != 0 || ok {
		t.Errorf("expected (0, false), got (%d, %v)", n, ok)
	}
}
