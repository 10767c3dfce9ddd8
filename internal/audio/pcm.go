// Package audio decodes synthesized speech into playable sample buffers.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Speech output format
const (
	SampleRate = 24000
	Channels   = 1
)

// ErrOddLength is returned for PCM data that does not hold whole 16-bit samples
var ErrOddLength = errors.New("pcm data has odd length")

// Buffer is decoded audio with samples normalized to [-1, 1]
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    []float32
}

// Duration is the playback length of the buffer
func (b Buffer) Duration() time.Duration {
	if b.SampleRate == 0 || b.Channels == 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// DecodePCM converts 16-bit little-endian mono PCM into a Buffer
func DecodePCM(data []byte) (Buffer, error) {
	if len(data)%2 != 0 {
		return Buffer{}, fmt.Errorf("decode %d bytes: %w", len(data), ErrOddLength)
	}
	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(data[2*i:]))
		samples[i] = float32(v) / 32768.0
	}
	return Buffer{SampleRate: SampleRate, Channels: Channels, Samples: samples}, nil
}

// DecodeBase64 decodes the base64 wire form of a speech payload
func DecodeBase64(s string) (Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Buffer{}, fmt.Errorf("decode base64 audio: %w", err)
	}
	return DecodePCM(data)
}
