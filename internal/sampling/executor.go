package sampling

import "sync"

// Executor runs tasks one at a time on a single serialized context, such as
// a UI event loop. Execute enqueues the task and must not wait for it to run.
type Executor interface {
	Execute(task func())
}

// SerialExecutor is a headless Executor: one goroutine draining a queue.
type SerialExecutor struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewSerialExecutor starts the worker goroutine.
func NewSerialExecutor() *SerialExecutor {
	e := &SerialExecutor{
		tasks: make(chan func(), 16),
		done:  make(chan struct{}),
	}
	e.wg.Add(1)
	go e.loop()
	return e
}

func (e *SerialExecutor) loop() {
	defer e.wg.Done()
	for {
		select {
		case task := <-e.tasks:
			task()
		case <-e.done:
			return
		}
	}
}

// Execute queues task. Tasks queued after Close are dropped.
func (e *SerialExecutor) Execute(task func()) {
	select {
	case <-e.done:
		return
	default:
	}
	select {
	case e.tasks <- task:
	case <-e.done:
	}
}

// Close stops the worker after the task it is running, if any.
func (e *SerialExecutor) Close() {
	e.once.Do(func() { close(e.done) })
	e.wg.Wait()
}
