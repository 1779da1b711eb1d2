package lock

import "sync"

// Keyed hands out one mutex per key. The seat-capacity check and the write
// that follows it must not interleave for the same travel, so callers hold
// the travel's lock across both.
//
// Entries are never evicted; the map grows with the set of travels touched
// during the process lifetime, which stays small enough not to matter.
type Keyed struct {
	locks sync.Map // key -> *sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *Keyed) Lock(key int64) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
