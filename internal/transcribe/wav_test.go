package transcribe

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	samples := make([]float32, 16000)
	data, err := encodeWAV(samples, 16000)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}
	if len(data) != 44+len(samples)*2 {
		t.Fatalf("encoded length = %d, want %d", len(data), 44+len(samples)*2)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 16000 {
		t.Fatalf("sample rate = %d, want 16000", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 1 {
		t.Fatalf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Fatalf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(samples)*2) {
		t.Fatalf("data size = %d, want %d", got, len(samples)*2)
	}
}

func TestEncodeWAVClamping(t *testing.T) {
	data, err := encodeWAV([]float32{2.0, -2.0, 0.5}, 16000)
	if err != nil {
		t.Fatalf("encodeWAV: %v", err)
	}
	pcm := data[44:]
	if got := int16(binary.LittleEndian.Uint16(pcm[0:2])); got != 32767 {
		t.Fatalf("over-range sample = %d, want 32767", got)
	}
	if got := int16(binary.LittleEndian.Uint16(pcm[2:4])); got != -32768 {
		t.Fatalf("under-range sample = %d, want -32768", got)
	}
	half := float32(0.5)
	if got := int16(binary.LittleEndian.Uint16(pcm[4:6])); got != int16(half*32767) {
		t.Fatalf("mid sample = %d, want %d", got, int16(half*32767))
	}
}

func TestEncodeWAVRejectsEmpty(t *testing.T) {
	if _, err := encodeWAV(nil, 16000); err == nil {
		t.Fatal("expected error for empty samples")
	}
	if _, err := encodeWAV([]float32{0}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
