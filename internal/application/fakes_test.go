package application

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

var tokyo = time.FixedZone("JST", 9*60*60)

func at(s string) time.Time {
	t, err := time.ParseInLocation(domain.DateLayout, s, tokyo)
	if err != nil {
		panic(err)
	}
	return t
}

func cloneRecruit(r *entities.Recruit) *entities.Recruit {
	c := *r
	c.Participants = slices.Clone(r.Participants)
	c.Mentors = slices.Clone(r.Mentors)
	return &c
}

// memRepo is an in-memory RecruitRepository that counts mutations.
type memRepo struct {
	mu       sync.Mutex
	recruits map[int64]*entities.Recruit
	nextID   int64
	writes   int
	listErr  error
}

func newMemRepo(rs ...*entities.Recruit) *memRepo {
	m := &memRepo{recruits: make(map[int64]*entities.Recruit)}
	for _, r := range rs {
		m.put(r)
	}
	return m
}

func (m *memRepo) put(r *entities.Recruit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextID++
		r.ID = m.nextID
	} else if r.ID > m.nextID {
		m.nextID = r.ID
	}
	m.recruits[r.ID] = cloneRecruit(r)
}

func (m *memRepo) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memRepo) mutate(id int64, fn func(*entities.Recruit)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recruits[id]
	if !ok {
		return domain.ErrRecruitNotFound
	}
	fn(r)
	m.writes++
	return nil
}

func (m *memRepo) Create(_ context.Context, f entities.Fields, authorID entities.UserID, threadID string, participants []entities.UserID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.recruits[m.nextID] = &entities.Recruit{
		ID:              m.nextID,
		DateStr:         f.DateStr,
		Place:           f.Place,
		Capacity:        f.Capacity,
		Message:         f.Message,
		MentorRequested: f.MentorRequested,
		Industry:        f.Industry,
		AuthorID:        authorID,
		ThreadID:        threadID,
		Participants:    slices.Clone(participants),
	}
	m.writes++
	return m.nextID, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*entities.Recruit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recruits[id]
	if !ok {
		return nil, domain.ErrRecruitNotFound
	}
	return cloneRecruit(r), nil
}

func (m *memRepo) ListAll(context.Context) ([]entities.Recruit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]entities.Recruit, 0, len(m.recruits))
	for _, r := range m.recruits {
		out = append(out, *cloneRecruit(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) UpdateParticipants(_ context.Context, id int64, p []entities.UserID) error {
	return m.mutate(id, func(r *entities.Recruit) { r.Participants = slices.Clone(p) })
}

func (m *memRepo) UpdateMentors(_ context.Context, id int64, p []entities.UserID) error {
	return m.mutate(id, func(r *entities.Recruit) { r.Mentors = slices.Clone(p) })
}

func (m *memRepo) UpdateFields(_ context.Context, id int64, f entities.Fields) error {
	return m.mutate(id, func(r *entities.Recruit) {
		r.DateStr, r.Place, r.Capacity, r.Message = f.DateStr, f.Place, f.Capacity, f.Message
		r.MentorRequested, r.Industry = f.MentorRequested, f.Industry
	})
}

func (m *memRepo) SetExternalMessageRef(_ context.Context, id int64, ref string) error {
	return m.mutate(id, func(r *entities.Recruit) { r.MessageID = ref })
}

func (m *memRepo) MarkDeleted(_ context.Context, id int64) error {
	return m.mutate(id, func(r *entities.Recruit) { r.Deleted = true })
}

func (m *memRepo) MarkNotificationSent(_ context.Context, id int64) error {
	return m.mutate(id, func(r *entities.Recruit) { r.NotificationSent = true })
}

type sentMessage struct {
	ID        string
	ChannelID string
	Msg       output.Message
}

type directMessage struct {
	UserID  entities.UserID
	Content string
}

// fakeMessenger records every call. Errors are injected per operation.
type fakeMessenger struct {
	mu       sync.Mutex
	seq      int
	sent     []sentMessage
	edits    []sentMessage
	deleted  []string
	threads  []string
	topics   []string
	events   []output.ScheduledEvent
	dms      []directMessage
	members  map[entities.UserID]string
	sendErr  error
	editErr  error
	delErr   error
	thrErr   error
	eventErr error
	dmErr    map[entities.UserID]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		members: make(map[entities.UserID]string),
		dmErr:   make(map[entities.UserID]error),
	}
}

func (f *fakeMessenger) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeMessenger) SendMessage(_ context.Context, channelID string, msg output.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	id := f.next("m")
	f.sent = append(f.sent, sentMessage{ID: id, ChannelID: channelID, Msg: msg})
	return id, nil
}

func (f *fakeMessenger) EditMessage(_ context.Context, channelID, messageID string, msg output.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, sentMessage{ID: messageID, ChannelID: channelID, Msg: msg})
	return nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) CreateThread(_ context.Context, _, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.thrErr != nil {
		return "", f.thrErr
	}
	f.threads = append(f.threads, name)
	return f.next("t"), nil
}

func (f *fakeMessenger) FetchMember(_ context.Context, u entities.UserID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.members[u]
	if !ok {
		return "", domain.ErrMemberNotFound
	}
	return name, nil
}

func (f *fakeMessenger) CreateScheduledEvent(_ context.Context, ev output.ScheduledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeMessenger) SendDirect(_ context.Context, u entities.UserID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.dmErr[u]; err != nil {
		return err
	}
	f.dms = append(f.dms, directMessage{UserID: u, Content: content})
	return nil
}

func (f *fakeMessenger) SetTopic(_ context.Context, _, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	return nil
}

// sideEffects counts channel-visible mutations.
func (f *fakeMessenger) sideEffects() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent) + len(f.edits) + len(f.deleted)
}

type fakeAuthz struct {
	roles map[entities.UserID][]string
	err   error
}

func (a fakeAuthz) HasRole(_ context.Context, u entities.UserID, roleID string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return slices.Contains(a.roles[u], roleID), nil
}

type memSettings map[string]string

func (m memSettings) GetSetting(_ context.Context, key string) (string, error) { return m[key], nil }

func (m memSettings) SetSetting(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

type memUsers map[entities.UserID]string

func (m memUsers) RememberUser(_ context.Context, u entities.UserID, name string) error {
	m[u] = name
	return nil
}

func (m memUsers) LookupUser(_ context.Context, u entities.UserID) (string, error) { return m[u], nil }

// keyTranslator echoes the key and data so tests can assert on them.
type keyTranslator struct{}

func (keyTranslator) T(locale, key string, data map[string]any) string {
	return fmt.Sprintf("%s|%s|%v", locale, key, data)
}
