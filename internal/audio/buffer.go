package audio

import (
	"fmt"

	"dubforge/internal/services"
)

// Buffer holds multi-channel PCM samples at a fixed sample rate. Samples are
// float64 in [-1, 1]; every channel slice has the same length.
type Buffer struct {
	sampleRate int
	data       [][]float64
}

// NewBuffer allocates a silent buffer with the given shape.
func NewBuffer(sampleRate, channels, frames int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, services.Wrap(services.ErrValidation, "audio", "new buffer", fmt.Sprintf("sample rate must be positive, got %d", sampleRate), nil)
	}
	if channels <= 0 {
		return nil, services.Wrap(services.ErrValidation, "audio", "new buffer", fmt.Sprintf("channel count must be positive, got %d", channels), nil)
	}
	if frames < 0 {
		return nil, services.Wrap(services.ErrValidation, "audio", "new buffer", fmt.Sprintf("frame count must not be negative, got %d", frames), nil)
	}
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}
	return &Buffer{sampleRate: sampleRate, data: data}, nil
}

// FromSamples wraps existing per-channel sample data after validating shape.
// The slices are copied so later writes by the caller cannot alias the buffer.
func FromSamples(sampleRate int, channels [][]float64) (*Buffer, error) {
	if len(channels) == 0 {
		return nil, services.Wrap(services.ErrValidation, "audio", "from samples", "at least one channel required", nil)
	}
	frames := len(channels[0])
	for ch, samples := range channels {
		if len(samples) != frames {
			return nil, services.Wrap(services.ErrValidation, "audio", "from samples",
				fmt.Sprintf("channel %d has %d frames, channel 0 has %d", ch, len(samples), frames), nil)
		}
	}
	buf, err := NewBuffer(sampleRate, len(channels), frames)
	if err != nil {
		return nil, err
	}
	for ch, samples := range channels {
		copy(buf.data[ch], samples)
	}
	return buf, nil
}

// SampleRate returns the buffer's sample rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.data) }

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

// Sample returns one sample without bounds checking beyond the slice's own.
func (b *Buffer) Sample(channel, frame int) float64 {
	return b.data[channel][frame]
}

// Channel returns a copy of one channel's samples.
func (b *Buffer) Channel(channel int) []float64 {
	cp := make([]float64, len(b.data[channel]))
	copy(cp, b.data[channel])
	return cp
}
