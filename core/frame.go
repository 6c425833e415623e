package routing

import "time"

// AudioFrame is one decoded audio payload tagged with its sender. Frames
// are transient: they make a single forwarding attempt and are never queued
// or persisted.
type AudioFrame struct {
	Bytes         []byte
	ParticipantID string
	CapturedAt    time.Time
	Encoding      string
	SampleRate    int
}

// ValidateFrame reports whether the frame carries a routable payload.
func ValidateFrame(frame *AudioFrame) bool {
	return frame != nil && len(frame.Bytes) > 0
}

// BufferPool reuses fixed-size audio buffers to bound allocation churn on
// the hot path. Buffers of the wrong size, and releases beyond capacity,
// are discarded rather than pooled.
type BufferPool struct {
	bufferSize int
	buffers    chan []byte
}

func NewBufferPool(bufferSize, capacity int) *BufferPool {
	return &BufferPool{
		bufferSize: bufferSize,
		buffers:    make(chan []byte, capacity),
	}
}

// Acquire returns a zeroed buffer of the pool's fixed size.
func (p *BufferPool) Acquire() []byte {
	select {
	case buf := <-p.buffers:
		return buf
	default:
		return make([]byte, p.bufferSize)
	}
}

// Release returns a buffer to the pool. The buffer is zeroed before reuse
// so a pooled frame can never leak a previous participant's audio.
func (p *BufferPool) Release(buf []byte) {
	if len(buf) != p.bufferSize {
		return
	}
	for i := range buf {
		buf[i] = 0
	}

	select {
	case p.buffers <- buf:
	default:
	}
}

// Len reports how many buffers are currently pooled.
func (p *BufferPool) Len() int {
	return len(p.buffers)
}
