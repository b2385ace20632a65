package registry

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/history/pkg/history"
)

// Injector hands out one provider and forwards its changes as
// invalidations.
type Injector struct {
	key      string
	h        history.History
	notifier history.Notifier

	invalidations atomic.Uint64
	stop          func()
	detachOnce    sync.Once
}

func newInjector(key string, h history.History) *Injector {
	inj := &Injector{key: key, h: h}
	inj.stop = h.On(inj.invalidate)
	return inj
}

// Key returns the key the injector is bound to.
func (i *Injector) Key() string {
	return i.key
}

// Get returns the bound provider.
func (i *Injector) Get() history.History {
	return i.h
}

// OnInvalidate registers fn to run after every change of the provider.
func (i *Injector) OnInvalidate(fn func(history.Event)) func() {
	id := i.notifier.Subscribe(history.Handler(fn))
	return func() { i.notifier.Unsubscribe(id) }
}

// Invalidations returns how many change events have been forwarded.
func (i *Injector) Invalidations() uint64 {
	return i.invalidations.Load()
}

func (i *Injector) invalidate(e history.Event) {
	i.invalidations.Add(1)
	i.notifier.Emit(e)
}

func (i *Injector) detach() {
	i.detachOnce.Do(func() {
		i.stop()
		i.notifier.Clear()
	})
}
