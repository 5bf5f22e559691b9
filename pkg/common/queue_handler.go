package common

import (
	"sync"
)

// QueueProcessor is a function that processes a batch of items from the queue.
type QueueProcessor[V any] func(items []V)

// QueueHandler is a generic queue handler that processes items in the background.
type QueueHandler[V any] struct {
	mu        sync.Mutex
	idle      *sync.Cond
	queue     []V
	processor QueueProcessor[V]
	chunkSize int
	busy      bool
	stopped   bool
	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler[V any](processor QueueProcessor[V], chunkSize int) *QueueHandler[V] {
	q := &QueueHandler[V]{
		queue:     make([]V, 0),
		processor: processor,
		chunkSize: max(chunkSize, 1),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	q.idle = sync.NewCond(&q.mu)
	go q.processQueue()
	return q
}

// Add adds an item to the queue.
func (h *QueueHandler[V]) Add(item ...V) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.queue = append(h.queue, item...)
	h.mu.Unlock()
	h.notify()
}

func (h *QueueHandler[V]) notify() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until everything added so far has been processed.
func (h *QueueHandler[V]) Flush() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for (len(h.queue) > 0 || h.busy) && !h.stopped {
		h.idle.Wait()
	}
}

// Close drains the queue and stops the worker. Items added after Close are
// dropped.
func (h *QueueHandler[V]) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
	h.Flush()
}

func (h *QueueHandler[V]) processQueue() {
	for {
		h.mu.Lock()
		if len(h.queue) == 0 {
			h.busy = false
			h.idle.Broadcast()
			h.mu.Unlock()

			select {
			case <-h.wake:
				continue
			case <-h.done:
			}

			h.mu.Lock()
			if len(h.queue) == 0 {
				h.stopped = true
				h.queue = nil
				h.idle.Broadcast()
				h.mu.Unlock()
				return
			}
			h.mu.Unlock()
			continue
		}

		items := h.queue[:min(h.chunkSize, len(h.queue))]
		h.queue = h.queue[len(items):]
		h.busy = true
		h.mu.Unlock()

		h.processor(items)
	}
}
