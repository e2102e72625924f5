package audio

import (
	"math"
	"testing"
	"time"
)

func TestCueLengthAndEnd(t *testing.T) {
	s := NewCue(SampleRate, CueFreq, CueLength)
	want := SampleRate.N(CueLength)

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		if !ok {
			break
		}
		total += n
	}
	if total != want {
		t.Errorf("streamed %d samples, want %d", total, want)
	}
	if n, ok := s.Stream(buf); n != 0 || ok {
		t.Errorf("Stream after end = (%d, %v)", n, ok)
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err = %v", err)
	}
}

func TestCueDecays(t *testing.T) {
	s := NewCue(SampleRate, 440, 200*time.Millisecond)
	n := SampleRate.N(200 * time.Millisecond)
	buf := make([][2]float64, n)
	got, _ := s.Stream(buf)
	if got != n {
		t.Fatalf("streamed %d, want %d", got, n)
	}

	peak := func(from, to int) float64 {
		m := 0.0
		for _, v := range buf[from:to] {
			m = math.Max(m, math.Abs(v[0]))
			if v[0] != v[1] {
				t.Fatalf("channels differ")
			}
		}
		return m
	}
	q := n / 4
	first, last := peak(0, q), peak(3*q, n)
	if first == 0 || last >= first/4 {
		t.Errorf("peaks first=%v last=%v, want a strong fade", first, last)
	}
	if first > cueGain {
		t.Errorf("peak %v above gain %v", first, cueGain)
	}
}

func TestPlayerDisabledUntilInit(t *testing.T) {
	p := NewPlayer(SampleRate)
	p.Play(0.5)
	if p.Plays() != 0 {
		t.Errorf("played without init")
	}
	p.Close()
}
