package timeslice

import "time"

// ObserverHandle is a small generational handle identifying a registered
// observer, standing in for a weak/non-owning reference to the slice (spec
// §9 "Observer relation").
type ObserverHandle uint64

type observerBus struct {
	nextID  uint64
	buckets map[time.Duration]map[ObserverHandle]func()
	timeout map[ObserverHandle]time.Duration
}

func newObserverBus() *observerBus {
	return &observerBus{
		buckets: make(map[time.Duration]map[ObserverHandle]func()),
		timeout: make(map[ObserverHandle]time.Duration),
	}
}

func (b *observerBus) pending() int {
	return len(b.timeout)
}

func (b *observerBus) register(fn func(), timeout time.Duration) ObserverHandle {
	b.nextID++
	h := ObserverHandle(b.nextID)
	b.place(h, timeout)
	if fn != nil {
		b.buckets[timeout][h] = fn
	} else {
		b.buckets[timeout][h] = func() {}
	}
	return h
}

func (b *observerBus) place(h ObserverHandle, timeout time.Duration) {
	if b.buckets[timeout] == nil {
		b.buckets[timeout] = make(map[ObserverHandle]func())
	}
	b.timeout[h] = timeout
}

func (b *observerBus) drop(h ObserverHandle) {
	timeout, ok := b.timeout[h]
	if !ok {
		return
	}
	delete(b.buckets[timeout], h)
	if len(b.buckets[timeout]) == 0 {
		delete(b.buckets, timeout)
	}
	delete(b.timeout, h)
}

// roll decrements every bucket's timeout by delta (a negative delta, i.e.
// rolling backward, increases it); buckets whose new timeout has elapsed
// fire and drop their observers, the rest are rebucketed under their new
// timeout (spec §4.1 "roll"). A forward roll followed by the equal and
// opposite backward roll therefore restores every surviving observer's
// original timeout exactly.
func (b *observerBus) roll(delta time.Duration) {
	type moved struct {
		handle  ObserverHandle
		fn      func()
		newTime time.Duration
	}
	var toFire []func()
	var toMove []moved

	for timeout, observers := range b.buckets {
		newTimeout := timeout - delta
		if newTimeout <= 0 {
			for h, fn := range observers {
				toFire = append(toFire, fn)
				delete(b.timeout, h)
			}
			delete(b.buckets, timeout)
			continue
		}
		for h, fn := range observers {
			toMove = append(toMove, moved{handle: h, fn: fn, newTime: newTimeout})
		}
		delete(b.buckets, timeout)
	}

	for _, m := range toMove {
		b.place(m.handle, m.newTime)
		b.buckets[m.newTime][m.handle] = m.fn
	}

	for _, fn := range toFire {
		fn()
	}
}
