package storage

import (
	"log"
	"sync"
)

// writeWorkers is the size of the background pool that executes all storage
// work off the caller's goroutine. Serialisation of conflicting writes is
// left to SQLite's own locking; the pool only guarantees that callers never
// block on storage I/O.
const writeWorkers = 4

// executor is a fixed-size worker pool fed by a FIFO task queue.
type executor struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func newExecutor(workers, queueDepth int) *executor {
	e := &executor{tasks: make(chan func(), queueDepth)}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go e.run()
	}
	return e
}

func (e *executor) run() {
	defer e.wg.Done()
	for task := range e.tasks {
		task()
	}
}

// submit queues a task. Tasks submitted after close are dropped with a log
// line rather than a panic, so late fire-and-forget writes during shutdown
// are harmless.
func (e *executor) submit(task func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		log.Printf("[Storage] task dropped: executor is shut down")
		return
	}
	e.tasks <- task
}

// close stops accepting new tasks and waits for queued ones to finish.
func (e *executor) close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.tasks)
	e.mu.Unlock()

	e.wg.Wait()
}
