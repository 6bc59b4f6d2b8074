package exentry

// DefaultHistorySize is the number of lines kept per history.
const DefaultHistorySize = 50

// History keeps entered lines, most recent first. A line entered again
// moves to the front.
type History struct {
	items    []string
	maxItems int
}

// NewHistory creates a history holding at most maxItems lines.
func NewHistory(maxItems int) *History {
	if maxItems <= 0 {
		maxItems = DefaultHistorySize
	}
	return &History{
		items:    make([]string, 0, maxItems),
		maxItems: maxItems,
	}
}

// Add records line. Empty lines are ignored.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	for i, item := range h.items {
		if item == line {
			h.items = append(h.items[:i], h.items[i+1:]...)
			break
		}
	}
	h.items = append([]string{line}, h.items...)
	if len(h.items) > h.maxItems {
		h.items = h.items[:h.maxItems]
	}
}

// At returns the line i steps back (0 is the most recent).
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.items) {
		return "", false
	}
	return h.items[i], true
}

// Len returns the number of lines kept.
func (h *History) Len() int { return len(h.items) }
