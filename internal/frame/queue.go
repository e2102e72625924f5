// Package frame provides a display-refresh style request queue and the
// scheduler that drives the backdrop's redraw loop from it.
package frame

import "time"

// ID identifies a pending frame request.
type ID uint64

// Callback receives the host's elapsed time at the refresh tick.
type Callback func(now time.Duration)

// Requester is a display refresh signal: one callback per request, run at the
// next refresh.
type Requester interface {
	RequestFrame(cb Callback) ID
	CancelFrame(id ID)
}

type request struct {
	id ID
	cb Callback
}

// Queue is a Requester pumped by its host once per refresh. It is not safe
// for concurrent use; hosts call it from their single update goroutine.
type Queue struct {
	next    ID
	pending []request
	running []request
}

// RequestFrame queues cb for the next Flush.
func (q *Queue) RequestFrame(cb Callback) ID {
	q.next++
	q.pending = append(q.pending, request{id: q.next, cb: cb})
	return q.next
}

// CancelFrame drops a pending request. Cancelling a request from the batch
// currently being flushed also prevents it from running.
func (q *Queue) CancelFrame(id ID) {
	for i := range q.pending {
		if q.pending[i].id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for i := range q.running {
		if q.running[i].id == id {
			q.running[i].cb = nil
			return
		}
	}
}

// Pending returns the number of queued requests.
func (q *Queue) Pending() int { return len(q.pending) }

// Flush runs every request queued before the call. Requests made by the
// callbacks run on the next Flush. It returns the number of callbacks run.
func (q *Queue) Flush(now time.Duration) int {
	q.running, q.pending = q.pending, q.running[:0]
	n := 0
	for i := range q.running {
		cb := q.running[i].cb
		if cb == nil {
			continue
		}
		q.running[i].cb = nil
		cb(now)
		n++
	}
	q.running = q.running[:0]
	return n
}
