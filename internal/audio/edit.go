package audio

import (
	"fmt"
	"math"

	"dubforge/internal/services"
)

// SilencePosition selects where AddSilence inserts the silent span.
type SilencePosition string

const (
	SilenceStart SilencePosition = "start"
	SilenceEnd   SilencePosition = "end"
)

// Trim returns a new buffer holding the frame range
// [floor(startSec*rate), floor(endSec*rate)) of the input. The input is
// never mutated.
func Trim(b *Buffer, startSec, endSec float64) (*Buffer, error) {
	if b == nil {
		return nil, services.Wrap(services.ErrValidation, "audio", "trim", "nil buffer", nil)
	}
	startFrame := int(math.Floor(startSec * float64(b.sampleRate)))
	endFrame := int(math.Floor(endSec * float64(b.sampleRate)))
	if startFrame < 0 || endFrame > b.Frames() || endFrame <= startFrame {
		return nil, services.Wrap(services.ErrInvalidRange, "audio", "trim",
			fmt.Sprintf("range [%d, %d) outside buffer of %d frames", startFrame, endFrame, b.Frames()), nil)
	}

	out, err := NewBuffer(b.sampleRate, b.Channels(), endFrame-startFrame)
	if err != nil {
		return nil, err
	}
	for ch := range b.data {
		copy(out.data[ch], b.data[ch][startFrame:endFrame])
	}
	return out, nil
}

// AddSilence returns a new buffer extended by floor(durationSec*rate) silent
// frames at the requested position. The input is never mutated.
func AddSilence(b *Buffer, durationSec float64, position SilencePosition) (*Buffer, error) {
	if b == nil {
		return nil, services.Wrap(services.ErrValidation, "audio", "add silence", "nil buffer", nil)
	}
	if durationSec <= 0 {
		return nil, services.Wrap(services.ErrInvalidRange, "audio", "add silence",
			fmt.Sprintf("duration must be positive, got %g", durationSec), nil)
	}
	switch position {
	case SilenceStart, SilenceEnd:
	default:
		return nil, services.Wrap(services.ErrValidation, "audio", "add silence",
			fmt.Sprintf("unknown position %q", position), nil)
	}

	pad := int(math.Floor(durationSec * float64(b.sampleRate)))
	out, err := NewBuffer(b.sampleRate, b.Channels(), b.Frames()+pad)
	if err != nil {
		return nil, err
	}
	offset := 0
	if position == SilenceStart {
		offset = pad
	}
	for ch := range b.data {
		copy(out.data[ch][offset:], b.data[ch])
	}
	return out, nil
}
