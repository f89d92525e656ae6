package segment

import "testing"

func collectFrames(samples []float32) [][]float32 {
	var out [][]float32
	for chunk := range Frames(samples) {
		out = append(out, chunk)
	}
	return out
}

func TestFramesEmptyInput(t *testing.T) {
	if got := collectFrames(nil); len(got) != 0 {
		t.Errorf("empty input yielded %d chunks, want 0", len(got))
	}
}

func TestFramesExactMultiple(t *testing.T) {
	samples := make([]float32, ChunkSize*3)
	for i := range samples {
		samples[i] = float32(i)
	}

	chunks := collectFrames(samples)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) != ChunkSize {
			t.Errorf("chunk %d length = %d, want %d", i, len(chunk), ChunkSize)
		}
		if chunk[0] != float32(i*ChunkSize) {
			t.Errorf("chunk %d starts at %v, want %v", i, chunk[0], float32(i*ChunkSize))
		}
	}
}

func TestFramesPadsShortTail(t *testing.T) {
	samples := make([]float32, ChunkSize+10)
	for i := range samples {
		samples[i] = 1.0
	}

	chunks := collectFrames(samples)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	tail := chunks[1]
	if len(tail) != ChunkSize {
		t.Fatalf("tail length = %d, want %d", len(tail), ChunkSize)
	}
	for i := 0; i < 10; i++ {
		if tail[i] != 1.0 {
			t.Errorf("tail[%d] = %v, want 1.0", i, tail[i])
		}
	}
	for i := 10; i < ChunkSize; i++ {
		if tail[i] != 0 {
			t.Fatalf("tail[%d] = %v, want zero padding", i, tail[i])
		}
	}
}

func TestFramesSubChunkInput(t *testing.T) {
	chunks := collectFrames(make([]float32, 7))
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if len(chunks[0]) != ChunkSize {
		t.Errorf("chunk length = %d, want %d", len(chunks[0]), ChunkSize)
	}
}

func TestFramesRestartable(t *testing.T) {
	samples := make([]float32, ChunkSize*2)
	seq := Frames(samples)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != 2 || second != 2 {
		t.Errorf("iterations yielded %d then %d chunks, want 2 and 2", first, second)
	}
}

func TestFramesEarlyBreak(t *testing.T) {
	samples := make([]float32, ChunkSize*5)
	n := 0
	for range Frames(samples) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("broke after %d chunks, want 2", n)
	}
}
