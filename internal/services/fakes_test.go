package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thereayou/classroom-chat/internal/database"
	"github.com/thereayou/classroom-chat/internal/models"
	"github.com/thereayou/classroom-chat/pkg/auth"
)

type memoryStore struct {
	mu       sync.Mutex
	users    []*models.User
	messages []*models.Message
	audit    []*models.AuditLog
	nextID   int64
	failWith error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) userByName(name string) *models.User {
	for _, u := range m.users {
		if u.Username == name {
			return u
		}
	}
	return nil
}

func (m *memoryStore) userByID(id int64) *models.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *memoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.userByName(user.Username) != nil {
		return database.ErrDuplicate
	}
	user.ID = m.id()
	copied := *user
	m.users = append(m.users, &copied)
	return nil
}

func (m *memoryStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u := m.userByName(username)
	if u == nil {
		return nil, database.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryStore) UserIDByUsername(_ context.Context, username string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	u := m.userByName(username)
	if u == nil {
		return 0, database.ErrNotFound
	}
	return u.ID, nil
}

func (m *memoryStore) SetOnline(_ context.Context, username string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.userByName(username)
	if u == nil {
		return database.ErrNotFound
	}
	u.IsOnline = online
	return nil
}

func (m *memoryStore) ListUserStatuses(context.Context) ([]models.UserStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserStatus, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, models.UserStatus{Username: u.Username, IsOnline: u.IsOnline})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *memoryStore) view(msg *models.Message) models.MessageView {
	v := models.MessageView{
		ID:           msg.ID,
		AuthorID:     msg.AuthorID,
		Text:         msg.Text,
		CreatedAt:    msg.CreatedAt,
		LastModified: msg.LastModified,
	}
	if u := m.userByID(msg.AuthorID); u != nil {
		v.Username = u.Username
	}
	return v
}

func (m *memoryStore) ListMessages(ctx context.Context) ([]models.MessageView, error) {
	return m.FilterMessages(ctx, nil, nil, "")
}

func (m *memoryStore) FilterMessages(_ context.Context, from, to *time.Time, pattern string) ([]models.MessageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.MessageView
	for _, msg := range m.messages {
		if from != nil && msg.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && msg.CreatedAt.After(*to) {
			continue
		}
		if strings.TrimSpace(pattern) != "" && !strings.Contains(msg.Text, pattern) {
			continue
		}
		out = append(out, m.view(msg))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryStore) CreateMessage(_ context.Context, message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	message.ID = m.id()
	copied := *message
	m.messages = append(m.messages, &copied)
	return nil
}

func (m *memoryStore) message(id int64) *models.Message {
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

func (m *memoryStore) MessageAuthorID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.message(id)
	if msg == nil {
		return 0, database.ErrNotFound
	}
	return msg.AuthorID, nil
}

func (m *memoryStore) UpdateMessageText(_ context.Context, id int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := m.message(id)
	if msg == nil {
		return database.ErrNotFound
	}
	now := time.Now().UTC()
	msg.Text = text
	msg.LastModified = &now
	return nil
}

func (m *memoryStore) DeleteMessage(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.messages {
		if msg.ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *memoryStore) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	entry.ID = m.id()
	copied := *entry
	m.audit = append(m.audit, &copied)
	return nil
}

func (m *memoryStore) ListAuditLogs(context.Context) ([]models.AuditLogView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLogView, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		e := m.audit[i]
		v := models.AuditLogView{ID: e.ID, Action: e.Action, TimeAction: e.TimeAction}
		if u := m.userByID(e.UserID); u != nil {
			v.Username = u.Username
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *memoryStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.audit))
	for _, e := range m.audit {
		out = append(out, e.Action)
	}
	return out
}

type countingBroadcaster struct {
	mu    sync.Mutex
	calls int
}

func (b *countingBroadcaster) Notify(context.Context) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
}

func (b *countingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type fixture struct {
	store     *memoryStore
	broadcast *countingBroadcaster
	audit     *AuditService
	messages  *MessageService
	auth      *AuthService
}

func newFixture() *fixture {
	store := newMemoryStore()
	bc := &countingBroadcaster{}
	logger := zap.NewNop()
	audit := NewAuditService(store, store, logger)
	return &fixture{
		store:     store,
		broadcast: bc,
		audit:     audit,
		messages:  NewMessageService(store, store, audit, bc, nil, logger),
		auth:      NewAuthService(store, auth.NewJWTManager("test-secret", time.Hour), audit, bc, logger),
	}
}
