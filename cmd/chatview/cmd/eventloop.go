package cmd

// eventLoop serialises view mutations for the line-oriented commands. Client
// callbacks queue work with Dispatch; the command goroutine runs it.
type eventLoop struct {
	work chan func()
	done chan struct{}
}

func newEventLoop() *eventLoop {
	return &eventLoop{
		work: make(chan func(), 64),
		done: make(chan struct{}),
	}
}

// Dispatch queues fn. It drops fn once the loop has stopped.
func (l *eventLoop) Dispatch(fn func()) {
	select {
	case l.work <- fn:
	case <-l.done:
	}
}

// drain runs everything queued so far without blocking.
func (l *eventLoop) drain() {
	for {
		select {
		case fn := <-l.work:
			fn()
		default:
			return
		}
	}
}

func (l *eventLoop) stop() { close(l.done) }
