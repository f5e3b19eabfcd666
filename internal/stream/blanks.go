package stream

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// blankQueue buffers the superblank text met after a token has started, so
// it can be flushed verbatim once that token's lexical unit is written.
type blankQueue struct {
	q *linkedlistqueue.Queue
}

func newBlankQueue() *blankQueue {
	return &blankQueue{q: linkedlistqueue.New()}
}

func (b *blankQueue) push(s string) {
	b.q.Enqueue(s)
}

func (b *blankQueue) empty() bool {
	return b.q.Empty()
}

// flush drains every queued blank, concatenated in FIFO order.
func (b *blankQueue) flush() string {
	var out []byte
	for !b.q.Empty() {
		v, _ := b.q.Dequeue()
		out = append(out, v.(string)...)
	}
	return string(out)
}

// wblank is one `[[...]]...[[/]]` wordbound blank: the bracketed content
// plus the literal text it wraps. Postgeneration buffers these directly in
// a slice (see tm_sao.go's pendingWb) since, unlike plain blanks, they are
// combined rather than replayed individually.
type wblank struct {
	Content string
	Body    string
}
