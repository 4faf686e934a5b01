package pipeline

import "sync"

// history is the mutex-guarded run log. Appends from concurrent runs
// serialize here even though the processing stages themselves do not.
type history struct {
	mu      sync.Mutex
	records []RunRecord
}

func (h *history) append(r RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
}

func (h *history) snapshot() []RunRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]RunRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *history) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}
