package view

import (
	"sync"
	"time"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastReject  ToastKind = "reject"
)

type ToastMessage struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

// Toast holds at most one transient notification. Showing a new message
// replaces the current one and restarts the expiry clock.
type Toast struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *ToastMessage
	timer   *time.Timer
	seq     uint64
}

func NewToast(ttl time.Duration) *Toast {
	return &Toast{ttl: ttl}
}

func (t *Toast) Show(kind ToastKind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.seq++
	seq := t.seq
	t.current = &ToastMessage{Kind: kind, Message: message}
	t.timer = time.AfterFunc(t.ttl, func() {
		t.expire(seq)
	})
}

// expire clears the toast only if it has not been replaced since the
// timer was armed.
func (t *Toast) expire(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seq == seq {
		t.current = nil
	}
}

func (t *Toast) Current() (ToastMessage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return ToastMessage{}, false
	}
	return *t.current, true
}
