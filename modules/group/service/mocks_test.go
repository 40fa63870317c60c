package service

import (
	"context"
	"errors"
	"sync"
	"time"

	eventEntity "weekend-match-api/modules/event/entity"
	"weekend-match-api/modules/group/entity"

	"github.com/google/uuid"
)

var ErrMockStore = errors.New("mock store error")

// MockGroupRepository mirrors the partial unique index on active groups per event and
// the unique conversation per group.
type MockGroupRepository struct {
	mu            sync.Mutex
	Groups        []entity.MatchGroup
	Members       map[uuid.UUID][]uuid.UUID
	Conversations map[uuid.UUID]entity.Conversation
	Booked        map[uuid.UUID][]uuid.UUID

	CreateGroupFunc func(ctx context.Context, g *entity.MatchGroup, ids []uuid.UUID) (*entity.MatchGroup, error)
	CreateConvFunc  func(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error)
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		Members:       map[uuid.UUID][]uuid.UUID{},
		Conversations: map[uuid.UUID]entity.Conversation{},
		Booked:        map[uuid.UUID][]uuid.UUID{},
	}
}

func (m *MockGroupRepository) GetActiveGroupByEvent(ctx context.Context, eventID uuid.UUID) (*entity.MatchGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked(eventID), nil
}

func (m *MockGroupRepository) activeLocked(eventID uuid.UUID) *entity.MatchGroup {
	for _, g := range m.Groups {
		if g.EventID != nil && *g.EventID == eventID && g.Status == entity.GroupStatusActive {
			cp := g
			return &cp
		}
	}
	return nil
}

func (m *MockGroupRepository) GetGroupByID(ctx context.Context, id uuid.UUID) (*entity.MatchGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.Groups {
		if g.ID == id {
			cp := g
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockGroupRepository) ListBookedUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.Booked[eventID]...), nil
}

func (m *MockGroupRepository) CreateGroupWithMembers(ctx context.Context, g *entity.MatchGroup, ids []uuid.UUID) (*entity.MatchGroup, error) {
	if m.CreateGroupFunc != nil {
		return m.CreateGroupFunc(ctx, g, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.EventID != nil && m.activeLocked(*g.EventID) != nil {
		return nil, nil
	}
	created := *g
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.Groups = append(m.Groups, created)
	m.Members[created.ID] = append([]uuid.UUID(nil), ids...)
	return &created, nil
}

func (m *MockGroupRepository) ListMemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.Members[groupID]...), nil
}

func (m *MockGroupRepository) GetConversationByGroup(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Conversations[groupID]; ok {
		return &c, nil
	}
	return nil, nil
}

func (m *MockGroupRepository) CreateConversationIfAbsent(ctx context.Context, groupID uuid.UUID) (*entity.Conversation, error) {
	if m.CreateConvFunc != nil {
		return m.CreateConvFunc(ctx, groupID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Conversations[groupID]; ok {
		return nil, nil
	}
	c := entity.Conversation{ID: uuid.New(), GroupID: groupID, CreatedAt: time.Now()}
	m.Conversations[groupID] = c
	return &c, nil
}

type MockEventReader struct {
	Events map[uuid.UUID]*eventEntity.Event
	Err    error
}

func (m *MockEventReader) GetEventByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	ev, ok := m.Events[id]
	if !ok {
		return nil, nil
	}
	cp := *ev
	return &cp, nil
}

type MockPublisher struct {
	mu   sync.Mutex
	Keys []string
	Msgs []any
}

func (p *MockPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Keys = append(p.Keys, key)
	p.Msgs = append(p.Msgs, v)
	return nil
}

func (p *MockPublisher) Close() error { return nil }
