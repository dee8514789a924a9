package tui

import "strings"

// sparkBlocks maps a 0..100 value onto eight block heights.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// history keeps the most recent samples up to a fixed capacity.
type history struct {
	samples []float64
	limit   int
}

func newHistory(limit int) history {
	return history{limit: limit}
}

// Push appends v, dropping the oldest sample when full.
func (h *history) Push(v float64) {
	if h.limit <= 0 {
		return
	}
	if len(h.samples) == h.limit {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.limit-1]
	}
	h.samples = append(h.samples, v)
}

// Last returns the newest sample, or 0 when empty.
func (h history) Last() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return h.samples[len(h.samples)-1]
}

// renderSparkline draws percentage samples as block characters.
func renderSparkline(samples []float64) string {
	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range samples {
		idx := int(v / 100 * float64(top))
		if idx < 0 {
			idx = 0
		} else if idx > top {
			idx = top
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
