package common

import (
	"slices"
	"sync"
	"testing"
)

func TestQueueHandlerProcessesInChunks(t *testing.T) {
	var mu sync.Mutex
	var batches [][]int
	q := NewQueueHandler(func(items []int) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, slices.Clone(items))
	}, 2)
	defer q.Close()

	q.Add(1, 2, 3)
	q.Add(4)
	q.Add(5)
	q.Flush()

	mu.Lock()
	defer mu.Unlock()
	var all []int
	for _, b := range batches {
		if len(b) > 2 {
			t.Errorf("batch larger than chunk size: %v", b)
		}
		all = append(all, b...)
	}
	if !slices.Equal(all, []int{1, 2, 3, 4, 5}) {
		t.Errorf("expected items in order, got %v", all)
	}
}

func TestQueueHandlerCloseDrains(t *testing.T) {
	count := 0
	q := NewQueueHandler(func(items []string) {
		count += len(items)
	}, 10)
	q.Add("a", "b")
	q.Close()
	if count != 2 {
		t.Errorf("expected queued items to be processed before close, got %d", count)
	}
	q.Add("c")
	q.Flush()
	if count != 2 {
		t.Errorf("items added after close should be dropped, got %d", count)
	}
}
