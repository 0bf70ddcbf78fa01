package buffer

// Buffer is an append-only byte store with a hard size limit, segmented
// so that multiple unrelated byte sequences (header keys, values, the
// response body) can live in a single allocation. Writes past the limit
// are refused, never truncated.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data unless the total stored amount would exceed the
// limit, in which case nothing is written and false is returned.
func (b *Buffer) Append(data []byte) (ok bool) {
	if len(b.memory)+len(data) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, data...)
	return true
}

// AppendString is Append for string data, avoiding a conversion copy.
func (b *Buffer) AppendString(data string) (ok bool) {
	if len(b.memory)+len(data) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, data...)
	return true
}

// SegmentLength is the number of bytes written since the last Finish.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Preview returns the current segment without completing it.
func (b *Buffer) Preview() []byte {
	return b.memory[b.begin:]
}

// Trunc drops the last n bytes of the current segment. Previous
// segments stay intact.
func (b *Buffer) Trunc(n int) {
	if seglen := b.SegmentLength(); n > seglen {
		n = seglen
	}

	b.memory = b.memory[:len(b.memory)-n]
}

// Finish completes the current segment and returns it. The returned
// slice stays valid until Clear.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Clear resets the buffer for reuse. Segments handed out before the
// call are invalidated.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
