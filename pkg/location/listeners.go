package location

import "sync"

// listeners is an ordered set of hash-change callbacks.
type listeners struct {
	mu     sync.Mutex
	nextID uint64
	fns    []listener
}

type listener struct {
	id uint64
	fn func(hash string)
}

func (l *listeners) add(fn func(hash string)) func() {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.fns = append(l.fns, listener{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *listeners) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, ln := range l.fns {
		if ln.id == id {
			l.fns = append(l.fns[:i:i], l.fns[i+1:]...)
			return
		}
	}
}

func (l *listeners) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}

// fire calls every listener outside the lock.
func (l *listeners) fire(hash string) {
	l.mu.Lock()
	snapshot := l.fns
	l.mu.Unlock()

	for _, ln := range snapshot {
		ln.fn(hash)
	}
}
