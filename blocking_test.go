package lfpipe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockingQueuePushPopSequential(t *testing.T) {
	q := NewBlockingQueue[int](8, 1)

	for i := 0; i < 100; i++ {
		require.NoError(t, q.Push(i))
	}
	for i := 0; i < 100; i++ {
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
}

func TestBlockingQueuePopWakesOnPush(t *testing.T) {
	q := NewBlockingQueue[int](8, 1)

	done := make(chan int, 1)
	go func() {
		v, ok := q.Pop()
		if !ok {
			done <- -1
			return
		}
		done <- v
	}()

	time.Sleep(10 * time.Millisecond) // give Pop a chance to block on the condvar
	require.NoError(t, q.Push(42))

	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("Pop never woke up after Push")
	}
}

func TestBlockingQueueCloseUnblocksWaitingPop(t *testing.T) {
	q := NewBlockingQueue[int](8, 1)

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok, "Pop must report closed once the queue stops running")
	case <-time.After(time.Second):
		t.Fatal("Close never woke the blocked Pop")
	}
}

func TestBlockingQueueDrainReadsEverythingBuffered(t *testing.T) {
	q := NewBlockingQueue[int](8, 1)

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Push(i))
	}

	var got []int
	var mu sync.Mutex
	err := q.Drain(20, time.Millisecond, func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestBlockingQueueDrainOnEmptyQueueIsNoop(t *testing.T) {
	q := NewBlockingQueue[int](8, 1)

	called := false
	err := q.Drain(5, time.Millisecond, func(int) { called = true })
	require.NoError(t, err)
	assert.False(t, called)
}
