package services

import (
	"slices"
	"sync"
)

// lockSet serialises protocols that share any key (event, room or username).
// Protocols hold the global lock shared; Exclusive holds it alone.
type lockSet struct {
	global sync.RWMutex

	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newLockSet() *lockSet {
	return &lockSet{keys: make(map[string]*keyLock)}
}

// lock acquires every key in sorted order and returns the matching unlock.
func (l *lockSet) lock(keys ...string) (unlock func()) {
	keys = normaliseKeys(keys)
	l.global.RLock()

	held := make([]*keyLock, 0, len(keys))
	for _, k := range keys {
		kl := l.acquire(k)
		kl.mu.Lock()
		held = append(held, kl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.releaseRef(keys[i])
		}
		l.global.RUnlock()
	}
}

func (l *lockSet) exclusive() (unlock func()) {
	l.global.Lock()
	return l.global.Unlock
}

func (l *lockSet) acquire(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLock{}
		l.keys[key] = kl
	}
	kl.refs++
	return kl
}

func (l *lockSet) releaseRef(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl := l.keys[key]
	kl.refs--
	if kl.refs == 0 {
		delete(l.keys, key)
	}
}

func normaliseKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func eventKey(id string) string { return "event:" + id }

func roomKey(name string) string { return "room:" + name }

func userKey(username string) string {
	if username == "" {
		return ""
	}
	return "user:" + username
}

// containsAll reports whether every key in want is in have (both normalised).
func containsAll(have, want []string) bool {
	for _, k := range want {
		if _, found := slices.BinarySearch(have, k); !found {
			return false
		}
	}
	return true
}
