package discord

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"gdbot/internal/domain/form"
)

// FormTTL is how long an untouched form stays usable.
const FormTTL = 10 * time.Minute

type formSession struct {
	state   form.State
	expires time.Time
}

// FormStore keeps open form sessions in memory, keyed by a random id that is
// embedded in the form's custom ids.
type FormStore struct {
	mu       sync.Mutex
	sessions map[string]*formSession
	ttl      time.Duration
	clock    func() time.Time
}

func NewFormStore(ttl time.Duration, clock func() time.Time) *FormStore {
	if ttl <= 0 {
		ttl = FormTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &FormStore{sessions: make(map[string]*formSession), ttl: ttl, clock: clock}
}

// Open stores s under a new session id.
func (f *FormStore) Open(s form.State) string {
	sid := uuid.NewString()
	f.mu.Lock()
	f.sessions[sid] = &formSession{state: s, expires: f.clock().Add(f.ttl)}
	f.mu.Unlock()
	return sid
}

// Get returns the session's state and extends its lifetime.
func (f *FormStore) Get(sid string) (form.State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[sid]
	now := f.clock()
	if !ok || !now.Before(sess.expires) {
		delete(f.sessions, sid)
		return form.State{}, false
	}
	sess.expires = now.Add(f.ttl)
	return sess.state, true
}

// Put replaces the state of a live session. It reports false when the
// session expired in the meantime.
func (f *FormStore) Put(sid string, s form.State) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[sid]
	if !ok {
		return false
	}
	sess.state = s
	sess.expires = f.clock().Add(f.ttl)
	return true
}

func (f *FormStore) Close(sid string) {
	f.mu.Lock()
	delete(f.sessions, sid)
	f.mu.Unlock()
}

// Evict drops expired sessions and returns how many were removed.
func (f *FormStore) Evict() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.clock()
	n := 0
	for sid, sess := range f.sessions {
		if !now.Before(sess.expires) {
			delete(f.sessions, sid)
			n++
		}
	}
	return n
}

func (f *FormStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
