package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/utils"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.User
	err   error
	calls []string
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[primitive.ObjectID]models.User{}}
}

func (m *memUsers) add(name, avatar string) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.byID[id] = models.User{ID: id, Name: name, Avatar: avatar, Email: strings.ToLower(name) + "@example.com"}
	return id
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "users.delete")
	delete(m.byID, id)
	return nil
}

// memProfiles mirrors the Mongo store: one document per owner, version
// checked writes, owner summary joined on read.
type memProfiles struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]models.Profile
	users *memUsers

	findErr   error
	writeErr  error
	saveCount int
	// beforeWrite runs inside Update/SaveEntries before the version check.
	beforeWrite func(owner primitive.ObjectID)
	// afterRead runs once, after a read has loaded its data but before it
	// returns, and is then cleared.
	afterRead func()
}

func newMemProfiles(users *memUsers) *memProfiles {
	return &memProfiles{docs: map[primitive.ObjectID]models.Profile{}, users: users}
}

func clone(p models.Profile) models.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Experience = append([]models.Experience(nil), p.Experience...)
	p.Education = append([]models.Education(nil), p.Education...)
	p.User = nil
	return p
}

func (m *memProfiles) stored(owner primitive.ObjectID) (models.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[owner]
	return clone(p), ok
}

func (m *memProfiles) join(p models.Profile) models.Profile {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	if u, ok := m.users.byID[p.UserID]; ok {
		p.User = &models.UserSummary{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
	}
	return p
}

func (m *memProfiles) FindByOwner(_ context.Context, owner primitive.ObjectID) (*models.Profile, error) {
	defer m.runAfterRead()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.docs[owner]
	if !ok {
		return nil, utils.ErrNotFound
	}
	out := m.join(clone(p))
	return &out, nil
}

func (m *memProfiles) FindAll(_ context.Context) ([]models.Profile, error) {
	defer m.runAfterRead()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := []models.Profile{}
	for _, p := range m.docs {
		out = append(out, m.join(clone(p)))
	}
	return out, nil
}

func (m *memProfiles) runAfterRead() {
	m.mu.Lock()
	fn := m.afterRead
	m.afterRead = nil
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *memProfiles) Create(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.docs[p.UserID]; ok {
		return utils.ErrConflict
	}
	p.ID = primitive.NewObjectID()
	p.Date = time.Now().UTC()
	if p.Skills == nil {
		p.Skills = []string{}
	}
	m.docs[p.UserID] = clone(*p)
	m.saveCount++
	return nil
}

func (m *memProfiles) Update(_ context.Context, owner primitive.ObjectID, version int64, f models.ProfileFields) error {
	if m.beforeWrite != nil {
		m.beforeWrite(owner)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	p, ok := m.docs[owner]
	if !ok || p.Version != version {
		return utils.ErrConflict
	}
	f.Apply(&p)
	p.Version++
	m.docs[owner] = clone(p)
	m.saveCount++
	return nil
}

func (m *memProfiles) SaveEntries(_ context.Context, p *models.Profile) error {
	if m.beforeWrite != nil {
		m.beforeWrite(p.UserID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	cur, ok := m.docs[p.UserID]
	if !ok || cur.Version != p.Version {
		return utils.ErrConflict
	}
	cur.Experience = p.Experience
	cur.Education = p.Education
	cur.Version++
	m.docs[p.UserID] = clone(cur)
	p.Version++
	m.saveCount++
	return nil
}

func (m *memProfiles) DeleteByOwner(_ context.Context, owner primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users.mu.Lock()
	m.users.calls = append(m.users.calls, "profiles.delete")
	m.users.mu.Unlock()
	delete(m.docs, owner)
	return nil
}

// bump simulates a concurrent writer by moving the stored version.
func (m *memProfiles) bump(owner primitive.ObjectID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.docs[owner]
	p.Version++
	m.docs[owner] = p
}

type memCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	gets    int
	hits    int
	err     error
	deleted []string
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.items[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, keys...)
	for _, k := range keys {
		delete(c.items, k)
	}
	return c.err
}

type stubTokens struct {
	err error
}

func (s stubTokens) Issue(id primitive.ObjectID) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + id.Hex(), nil
}

type stubRepos struct {
	status int
	body   []byte
	err    error
	calls  int
	user   string
}

func (s *stubRepos) ListRepos(_ context.Context, username string) (int, []byte, error) {
	s.calls++
	s.user = username
	return s.status, s.body, s.err
}

var errBoom = errors.New("boom")
