package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"dubforge/internal/services"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
	pcmFormat     = 1
)

// EncodeWAV serializes a buffer into an uncompressed 16-bit PCM WAV
// container: 44-byte header followed by interleaved little-endian samples.
// The output is deterministic and bit-exact for a given input.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if b == nil {
		return nil, services.Wrap(services.ErrValidation, "audio", "encode", "nil buffer", nil)
	}

	channels := b.Channels()
	frames := b.Frames()
	dataBytes := frames * channels * 2
	out := make([]byte, wavHeaderSize+dataBytes)

	blockAlign := channels * 2
	byteRate := b.sampleRate * blockAlign

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(b.sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataBytes))

	pos := wavHeaderSize
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint16(out[pos:pos+2], uint16(quantize(b.data[ch][frame])))
			pos += 2
		}
	}
	return out, nil
}

func quantize(sample float64) int16 {
	clamped := math.Max(-1, math.Min(1, sample))
	scaled := math.Round(clamped * math.MaxInt16)
	if scaled > math.MaxInt16 {
		return math.MaxInt16
	}
	if scaled < math.MinInt16 {
		return math.MinInt16
	}
	return int16(scaled)
}

// DecodeWAV parses an uncompressed 16-bit PCM WAV container back into a
// buffer. Only the canonical layout produced by EncodeWAV plus extra
// non-data chunks (which players commonly append) is accepted; anything
// structurally inconsistent fails closed.
func DecodeWAV(data []byte) (*Buffer, error) {
	fail := func(msg string) (*Buffer, error) {
		return nil, services.Wrap(services.ErrMalformedInput, "audio", "decode wav", msg, nil)
	}

	if len(data) < wavHeaderSize {
		return fail(fmt.Sprintf("container too short: %d bytes", len(data)))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return fail("missing RIFF/WAVE header")
	}

	var (
		sampleRate int
		channels   int
		haveFmt    bool
	)

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			return fail(fmt.Sprintf("chunk %q overruns container", chunkID))
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return fail(fmt.Sprintf("fmt chunk too short: %d bytes", chunkSize))
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != pcmFormat {
				return fail(fmt.Sprintf("unsupported audio format %d, want PCM", format))
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != bitsPerSample {
				return fail(fmt.Sprintf("unsupported bit depth %d, want %d", bits, bitsPerSample))
			}
			if channels <= 0 || sampleRate <= 0 {
				return fail(fmt.Sprintf("invalid fmt chunk: %d channels at %d Hz", channels, sampleRate))
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return fail("data chunk before fmt chunk")
			}
			return decodeSamples(data[body:body+chunkSize], sampleRate, channels)
		}

		// Chunks are word-aligned; odd sizes carry a pad byte.
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}
	return fail("missing data chunk")
}

func decodeSamples(raw []byte, sampleRate, channels int) (*Buffer, error) {
	blockAlign := channels * 2
	if len(raw)%blockAlign != 0 {
		return nil, services.Wrap(services.ErrMalformedInput, "audio", "decode wav",
			fmt.Sprintf("data size %d is not a multiple of frame size %d", len(raw), blockAlign), nil)
	}
	frames := len(raw) / blockAlign

	buf, err := NewBuffer(sampleRate, channels, frames)
	if err != nil {
		return nil, err
	}
	pos := 0
	for frame := 0; frame < frames; frame++ {
		for ch := 0; ch < channels; ch++ {
			sample := int16(binary.LittleEndian.Uint16(raw[pos : pos+2]))
			buf.data[ch][frame] = float64(sample) / math.MaxInt16
			pos += 2
		}
	}
	return buf, nil
}
