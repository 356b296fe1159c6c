package report

import (
	"sync"
	"time"
)

const HistoryLimit = 10

// HistoryEntry describes one successful export.
type HistoryEntry struct {
	ID             string    `json:"id"`
	ReportName     string    `json:"report_name"`
	ReportType     string    `json:"report_type"`
	ReportTypeName string    `json:"report_type_name"`
	GeneratedAt    time.Time `json:"generated_at"`
	Format         Format    `json:"format"`
	Filename       string    `json:"filename"`
	Trigger        string    `json:"trigger"` // manual or schedule
}

// History keeps the most recent exports, newest first.
type History struct {
	mu      sync.RWMutex
	entries []HistoryEntry
}

func NewHistory() *History {
	return &History{}
}

// Record prepends e and drops anything past HistoryLimit.
func (h *History) Record(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]HistoryEntry, 0, HistoryLimit)
	entries = append(entries, e)
	for _, old := range h.entries {
		if len(entries) == HistoryLimit {
			break
		}
		entries = append(entries, old)
	}
	h.entries = entries
}

func (h *History) List() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
