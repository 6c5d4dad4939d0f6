package ppu

// Pixel sources.
const (
	srcBG byte = iota
	srcWindow
	srcOBJ0
	srcOBJ1
)

type pixel struct {
	color      byte // 2-bit color index
	source     byte
	bgPriority bool // object attr bit 7: hide behind BG colors 1-3
}

// fifo is a ring buffer of up to 16 pixels.
type fifo struct {
	buf  [16]pixel
	head int
	size int
}

func (q *fifo) Clear()   { q.head, q.size = 0, 0 }
func (q *fifo) Len() int { return q.size }

func (q *fifo) Push(px pixel) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.size)%len(q.buf)] = px
	q.size++
	return true
}

func (q *fifo) Pop() (pixel, bool) {
	if q.size == 0 {
		return pixel{}, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// at returns the i-th queued pixel, growing the queue with transparent
// pixels when i is past the end.
func (q *fifo) at(i int) *pixel {
	for q.size <= i {
		q.Push(pixel{})
	}
	return &q.buf[(q.head+i)%len(q.buf)]
}

// mergeObject lays an object row over the queue starting at slot offset.
// Slots already holding an opaque object pixel keep it.
func (q *fifo) mergeObject(row [8]pixel, offset int) {
	for i, px := range row {
		slot := offset + i
		if slot < 0 || slot >= len(q.buf) {
			continue
		}
		cur := q.at(slot)
		if cur.color == 0 {
			*cur = px
		}
	}
}
