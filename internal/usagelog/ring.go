package usagelog

import "GovAI/internal/domain"

// ring is a fixed-capacity FIFO of log records.
type ring struct {
	items []domain.LogRecord
	start int
	size  int
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{items: make([]domain.LogRecord, capacity)}
}

func (r *ring) push(rec domain.LogRecord) {
	capacity := len(r.items)
	if r.size < capacity {
		r.items[(r.start+r.size)%capacity] = rec
		r.size++
		return
	}
	r.items[r.start] = rec
	r.start = (r.start + 1) % capacity
}

// tail returns up to n newest records, oldest first. n <= 0 means all.
func (r *ring) tail(n int) []domain.LogRecord {
	if n <= 0 || n > r.size {
		n = r.size
	}
	out := make([]domain.LogRecord, 0, n)
	for i := r.size - n; i < r.size; i++ {
		out = append(out, r.items[(r.start+i)%len(r.items)])
	}
	return out
}
