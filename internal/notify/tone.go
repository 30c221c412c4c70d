package notify

import (
	"encoding/binary"
	"math"
	"time"
)

// Tone is one note of a synthesised chime.
type Tone struct {
	Freq     float64 // Hz
	Duration time.Duration
}

// DefaultChime is a soft rising two-note cue.
var DefaultChime = []Tone{
	{Freq: 880, Duration: 180 * time.Millisecond},
	{Freq: 1318.5, Duration: 320 * time.Millisecond},
}

// Synthesize renders tones as 16-bit little-endian mono PCM at SampleRate.
// Each note gets a short attack and an exponential decay so it does not click.
func Synthesize(tones []Tone, volume float64) []byte {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	var total int
	for _, t := range tones {
		total += samplesFor(t.Duration)
	}
	pcm := make([]byte, 0, total*2)

	attack := samplesFor(5 * time.Millisecond)
	for _, t := range tones {
		n := samplesFor(t.Duration)
		for i := 0; i < n; i++ {
			env := math.Exp(-4 * float64(i) / float64(n))
			if i < attack {
				env *= float64(i) / float64(attack)
			}
			v := math.Sin(2*math.Pi*t.Freq*float64(i)/SampleRate) * env * volume
			pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(v*math.MaxInt16)))
		}
	}
	return pcm
}

func samplesFor(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}
