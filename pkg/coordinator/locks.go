package coordinator

import "sync"

// intentLocks serializes all work for a single intent. Handlers and bridge
// polls for the same intent run in emission order; different intents run
// concurrently. Entries live for the life of the engine, bounded by the number
// of intents seen by the process.
type intentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newIntentLocks() *intentLocks {
	return &intentLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// lock acquires the intent's mutex and returns the matching unlock
func (l *intentLocks) lock(intentID string) func() {
	l.mu.Lock()
	m, ok := l.locks[intentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[intentID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
