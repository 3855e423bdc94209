package types

// Transition is one step of a completed episode after the discounted-return
// pass. OldProb is the probability the collecting policy assigned to the
// action at the time it was taken.
type Transition struct {
	State   []float64
	Action  int
	Return  float64
	OldProb float64
}

// EpochBuffer holds the transitions of all episodes collected during one
// epoch, concatenated in collection order. It is replaced every epoch.
type EpochBuffer struct {
	transitions []Transition
}

func NewEpochBuffer() *EpochBuffer {
	return &EpochBuffer{
		transitions: make([]Transition, 0),
	}
}

// AppendEpisode merges a completed episode into the buffer preserving time
// order.
func (b *EpochBuffer) AppendEpisode(episode []Transition) {
	b.transitions = append(b.transitions, episode...)
}

func (b *EpochBuffer) Len() int {
	return len(b.transitions)
}

func (b *EpochBuffer) Get(i int) Transition {
	return b.transitions[i]
}

// Gather copies out the transitions at the given indices. Indices may
// repeat; the result aligns with the input order.
func (b *EpochBuffer) Gather(indices []int) []Transition {
	batch := make([]Transition, len(indices))
	for i, idx := range indices {
		batch[i] = b.transitions[idx]
	}
	return batch
}

// EpisodeRecord is one row of the per-case report.
type EpisodeRecord struct {
	Episode     int
	Epoch       int
	MakeSpan    int
	Reward      float64
	MinMakeSpan int
}

// MakeSpanWindow is the bounded sliding window of recent episode makespans
// used by the stopping rule.
type MakeSpanWindow struct {
	values []int
	cap    int
}

func NewMakeSpanWindow(capacity int) *MakeSpanWindow {
	return &MakeSpanWindow{
		values: make([]int, 0, capacity),
		cap:    capacity,
	}
}

// Append records a makespan, evicting the oldest entry once the window is
// full.
func (w *MakeSpanWindow) Append(makeSpan int) {
	w.values = append(w.values, makeSpan)
	if len(w.values) > w.cap {
		w.values = w.values[1:]
	}
}

func (w *MakeSpanWindow) Len() int {
	return len(w.values)
}

func (w *MakeSpanWindow) Min() int {
	min := w.values[0]
	for _, v := range w.values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func (w *MakeSpanWindow) Max() int {
	max := w.values[0]
	for _, v := range w.values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Converged reports whether the window is full and the makespan has been
// constant across it.
func (w *MakeSpanWindow) Converged() bool {
	return len(w.values) >= w.cap && w.Min() == w.Max()
}
