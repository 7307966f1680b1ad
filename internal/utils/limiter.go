package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// attemptWindow 包装失败次数和窗口过期时间
type attemptWindow struct {
	Failures  int
	ExpiresAt time.Time
}

// LoginLimiter counts failed logins per key inside a fixed window. Keys that
// fall out of the LRU simply start over.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts *lru.Cache[string, attemptWindow]
	max      int
	window   time.Duration
	now      func() time.Time
}

func NewLoginLimiter(size, maxFailures int, window time.Duration) (*LoginLimiter, error) {
	l, err := lru.New[string, attemptWindow](size)
	if err != nil {
		return nil, err
	}
	return &LoginLimiter{
		attempts: l,
		max:      maxFailures,
		window:   window,
		now:      time.Now,
	}, nil
}

// Blocked reports whether key has used up its failures for the current window.
func (l *LoginLimiter) Blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.get(key)
	return ok && w.Failures >= l.max
}

// Fail records a failed attempt and returns the failures so far in the window.
func (l *LoginLimiter) Fail(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.get(key)
	if !ok {
		w = attemptWindow{ExpiresAt: l.now().Add(l.window)}
	}
	w.Failures++
	l.attempts.Add(key, w)
	return w.Failures
}

// Reset forgets key, typically after a successful login.
func (l *LoginLimiter) Reset(key string) {
	l.attempts.Remove(key)
}

// get returns the live window for key; callers hold mu.
func (l *LoginLimiter) get(key string) (attemptWindow, bool) {
	w, ok := l.attempts.Get(key)
	if !ok {
		return attemptWindow{}, false
	}
	// 检查过期
	if l.now().After(w.ExpiresAt) {
		l.attempts.Remove(key)
		return attemptWindow{}, false
	}
	return w, true
}
