// Package protocol implements the framed binary wire protocol spoken by the
// acquisition device. The device multiplexes several logical channels onto one
// byte stream; each frame carries a one-byte node tag, a value byte and a
// fixed three-byte terminator.
package protocol

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
)

const (
	// MaxFrameSize is the largest frame the device emits, terminator included.
	MaxFrameSize = 244

	// valueOffset is the position of the value byte within a frame payload.
	valueOffset = 1
)

// Terminator is the three-byte sentinel that delimits frames on the wire.
var Terminator = []byte{0xFF, 0xFF, 0xFF}

// Decode extracts the channel tag and value from a delimited frame payload.
// The payload must already have its terminator stripped (see NewFrameScanner).
//
// The first byte is the node tag, reported as its two-digit hex form
// (0x31 -> "31"). The value is taken from the second byte. Frames too short
// to carry a value decode to 0.0 rather than failing; the device firmware
// emits such frames during startup and they are treated as valid. Empty
// payloads are rejected.
func Decode(frame []byte) (tag string, value float64, ok bool) {
	if len(frame) == 0 {
		return "", 0, false
	}
	tag = hex.EncodeToString(frame[:1])
	if len(frame) > valueOffset {
		value = float64(frame[valueOffset])
	}
	return tag, value, true
}

// NewFrameScanner returns a scanner that yields one frame payload per Scan,
// terminator stripped. A read that accumulates MaxFrameSize bytes without
// seeing the terminator is cut and emitted as-is, matching the device's
// bounded read contract.
func NewFrameScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, MaxFrameSize), MaxFrameSize*4)
	s.Split(splitFrames)
	return s
}

func splitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.Index(data, Terminator); i >= 0 {
		return i + len(Terminator), data[:i], nil
	}
	if len(data) >= MaxFrameSize {
		return MaxFrameSize, data[:MaxFrameSize], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
