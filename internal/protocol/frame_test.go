package protocol

import (
	"bytes"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
		tag   string
		value float64
		ok    bool
	}{
		{"channel one", []byte{0x31, 0x40}, "31", 64.0, true},
		{"channel six", []byte{0x36, 0x00}, "36", 0.0, true},
		{"trailing payload ignored", []byte{0x32, 0x7F, 0xAA, 0xBB}, "32", 127.0, true},
		{"short frame defaults to zero", []byte{0x33}, "33", 0.0, true},
		{"unknown tag still decodes", []byte{0x99, 0x10}, "99", 16.0, true},
		{"empty frame rejected", nil, "", 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, value, ok := Decode(tt.frame)
			if ok != tt.ok {
				t.Fatalf("Decode ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if tag != tt.tag {
				t.Errorf("tag = %q, want %q", tag, tt.tag)
			}
			if value != tt.value {
				t.Errorf("value = %v, want %v", value, tt.value)
			}
		})
	}
}

func TestFrameScannerSplitsOnTerminator(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0x31, 0x0A})
	stream.Write(Terminator)
	stream.Write([]byte{0x32, 0x14})
	stream.Write(Terminator)

	s := NewFrameScanner(&stream)

	want := [][]byte{{0x31, 0x0A}, {0x32, 0x14}}
	for i, w := range want {
		if !s.Scan() {
			t.Fatalf("Scan %d returned false, err = %v", i, s.Err())
		}
		if !bytes.Equal(s.Bytes(), w) {
			t.Errorf("frame %d = % X, want % X", i, s.Bytes(), w)
		}
	}
	if s.Scan() {
		t.Errorf("unexpected extra frame % X", s.Bytes())
	}
}

func TestFrameScannerTruncatedFrame(t *testing.T) {
	// One byte before the terminator: decode must still succeed with value 0.
	var stream bytes.Buffer
	stream.WriteByte(0x31)
	stream.Write(Terminator)

	s := NewFrameScanner(&stream)
	if !s.Scan() {
		t.Fatalf("Scan returned false, err = %v", s.Err())
	}
	tag, value, ok := Decode(s.Bytes())
	if !ok {
		t.Fatal("Decode rejected truncated frame")
	}
	if tag != "31" || value != 0.0 {
		t.Errorf("Decode = (%q, %v), want (\"31\", 0)", tag, value)
	}
}

func TestFrameScannerEmptyFrame(t *testing.T) {
	s := NewFrameScanner(bytes.NewReader(Terminator))
	if !s.Scan() {
		t.Fatalf("Scan returned false, err = %v", s.Err())
	}
	if len(s.Bytes()) != 0 {
		t.Errorf("frame = % X, want empty", s.Bytes())
	}
	if _, _, ok := Decode(s.Bytes()); ok {
		t.Error("Decode accepted empty frame")
	}
}

func TestFrameScannerOversizeCutoff(t *testing.T) {
	// No terminator within MaxFrameSize: the read is cut at the bound.
	raw := make([]byte, MaxFrameSize+8)
	for i := range raw {
		raw[i] = 0x31
	}
	s := NewFrameScanner(bytes.NewReader(raw))
	if !s.Scan() {
		t.Fatalf("Scan returned false, err = %v", s.Err())
	}
	if len(s.Bytes()) != MaxFrameSize {
		t.Errorf("frame length = %d, want %d", len(s.Bytes()), MaxFrameSize)
	}
}
