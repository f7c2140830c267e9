package api

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/auth"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// stubAuthorizer accepts tokens of the form "token-<userId>".
type stubAuthorizer struct{}

func (stubAuthorizer) Authorize(_ context.Context, token string) (*auth.UserInfo, error) {
	var id string
	if _, err := fmt.Sscanf(token, "token-%s", &id); err != nil || id == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return &auth.UserInfo{UserID: id}, nil
}

type stubSigner struct{}

func (stubSigner) SignedReadURL(_ context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}

func (stubSigner) SignedUploadURL(_ context.Context, key, _ string) (string, error) {
	return "https://upload.example/" + key, nil
}

func (stubSigner) Upload(_ context.Context, _ string, _ []byte, _ string) error { return nil }

// memStore is a map-backed store.Store for handler tests. Query semantics
// that live in the database (geo ordering, regex) are not reproduced.
type memStore struct {
	mu       sync.Mutex
	memories map[primitive.ObjectID]*model.Memory
	groups   map[primitive.ObjectID]*model.Group
	trips    map[primitive.ObjectID]*model.TripRecord
}

func newMemStore() *memStore {
	return &memStore{
		memories: map[primitive.ObjectID]*model.Memory{},
		groups:   map[primitive.ObjectID]*model.Group{},
		trips:    map[primitive.ObjectID]*model.TripRecord{},
	}
}

func (s *memStore) Memories() store.Memories       { return &memMemories{s} }
func (s *memStore) Groups() store.Groups           { return &memGroups{s} }
func (s *memStore) TripRecords() store.TripRecords { return &memTrips{s} }

type memMemories struct{ s *memStore }

func (m *memMemories) Create(_ context.Context, in *model.Memory) (*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := *in
	out.ID = primitive.NewObjectID()
	out.CreatedAt = time.Now().UTC()
	out.UpdatedAt = out.CreatedAt
	if out.Visibility == "" {
		out.Visibility = model.VisibilityPrivate
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	m.s.memories[out.ID] = &out
	return &out, nil
}

func (m *memMemories) GetByID(_ context.Context, userID string, id primitive.ObjectID) (*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.memories[id]
	if !ok || mem.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *memMemories) Update(_ context.Context, userID string, id primitive.ObjectID, upd model.MemoryUpdate) (*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.memories[id]
	if !ok || mem.UserID != userID {
		return nil, model.ErrNotFound
	}
	if upd.Text != nil {
		mem.Text = upd.Text
	}
	if upd.Favorite != nil {
		mem.Favorite = *upd.Favorite
	}
	if upd.GroupID != nil {
		mem.GroupID = *upd.GroupID
	}
	cp := *mem
	return &cp, nil
}

func (m *memMemories) Delete(_ context.Context, userID string, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.memories[id]
	if !ok || mem.UserID != userID {
		return model.ErrNotFound
	}
	delete(m.s.memories, id)
	return nil
}

func (m *memMemories) List(_ context.Context, req model.ListMemoriesRequest) (*model.MemoryPage, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := []*model.Memory{}
	for _, mem := range m.s.memories {
		if mem.UserID == req.UserID {
			cp := *mem
			items = append(items, &cp)
		}
	}
	return &model.MemoryPage{Page: req.Page, Limit: req.Limit, Total: int64(len(items)), Items: items}, nil
}

func (m *memMemories) ListByGroup(_ context.Context, groupID primitive.ObjectID, page, limit int) (*model.MemoryPage, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := []*model.Memory{}
	for _, mem := range m.s.memories {
		if mem.GroupID != nil && *mem.GroupID == groupID {
			cp := *mem
			items = append(items, &cp)
		}
	}
	return &model.MemoryPage{Page: page, Limit: limit, Total: int64(len(items)), Items: items}, nil
}

func (m *memMemories) FindNear(_ context.Context, userID string, _, _, _ float64, _ int) ([]*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := []*model.Memory{}
	for _, mem := range m.s.memories {
		if mem.UserID == userID {
			cp := *mem
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *memMemories) FindInView(_ context.Context, req model.ViewportRequest) ([]*model.NearbyMemory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := []*model.NearbyMemory{}
	for _, mem := range m.s.memories {
		if mem.UserID == req.UserID {
			items = append(items, &model.NearbyMemory{Memory: *mem, Dist: 10})
		}
	}
	return items, nil
}

func (m *memMemories) Stats(_ context.Context, req model.StatsRequest) (*model.Stats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var total int64
	for _, mem := range m.s.memories {
		if mem.UserID == req.UserID {
			total++
		}
	}
	return &model.Stats{Total: total}, nil
}

func (m *memMemories) DetachGroup(_ context.Context, groupID primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, mem := range m.s.memories {
		if mem.GroupID != nil && *mem.GroupID == groupID {
			mem.GroupID = nil
		}
	}
	return nil
}

type memGroups struct{ s *memStore }

func (g *memGroups) Create(_ context.Context, in *model.Group) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	out := *in
	out.ID = primitive.NewObjectID()
	if out.Color == "" {
		out.Color = model.DefaultGroupColor
	}
	if out.Members == nil {
		out.Members = []string{}
	}
	g.s.groups[out.ID] = &out
	return &out, nil
}

func (g *memGroups) GetByID(_ context.Context, id primitive.ObjectID) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *grp
	return &cp, nil
}

func (g *memGroups) List(_ context.Context, userID string) ([]*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	items := []*model.Group{}
	for _, grp := range g.s.groups {
		if grp.OwnerID == userID || slices.Contains(grp.Members, userID) {
			cp := *grp
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (g *memGroups) Update(_ context.Context, ownerID string, id primitive.ObjectID, upd model.GroupUpdate) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok || grp.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	if upd.Name != nil {
		grp.Name = *upd.Name
	}
	if upd.Color != nil {
		grp.Color = *upd.Color
	}
	cp := *grp
	return &cp, nil
}

func (g *memGroups) Delete(_ context.Context, ownerID string, id primitive.ObjectID) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok || grp.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	delete(g.s.groups, id)
	return grp, nil
}

func (g *memGroups) AddMember(_ context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok || grp.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	if !slices.Contains(grp.Members, userID) {
		grp.Members = append(grp.Members, userID)
	}
	cp := *grp
	return &cp, nil
}

func (g *memGroups) RemoveMember(_ context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok || grp.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	grp.Members = slices.DeleteFunc(grp.Members, func(m string) bool { return m == userID })
	cp := *grp
	return &cp, nil
}

func (g *memGroups) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.GroupSummary, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	out := map[primitive.ObjectID]*model.GroupSummary{}
	for _, id := range ids {
		if grp, ok := g.s.groups[id]; ok {
			out[id] = &model.GroupSummary{ID: id, Name: grp.Name, Color: grp.Color}
		}
	}
	return out, nil
}

type memTrips struct{ s *memStore }

func (t *memTrips) Create(_ context.Context, in *model.TripRecord) (*model.TripRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	out := *in
	out.ID = primitive.NewObjectID()
	if out.PhotoKeys == nil {
		out.PhotoKeys = []string{}
	}
	t.s.trips[out.ID] = &out
	return &out, nil
}

func (t *memTrips) GetByID(_ context.Context, userID string, id primitive.ObjectID) (*model.TripRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.trips[id]
	if !ok || tr.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *tr
	return &cp, nil
}

func (t *memTrips) Update(_ context.Context, userID string, id primitive.ObjectID, upd model.TripRecordUpdate) (*model.TripRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.trips[id]
	if !ok || tr.UserID != userID {
		return nil, model.ErrNotFound
	}
	if upd.Title != nil {
		tr.Title = *upd.Title
	}
	if upd.GroupID != nil {
		tr.GroupID = *upd.GroupID
	}
	cp := *tr
	return &cp, nil
}

func (t *memTrips) Delete(_ context.Context, userID string, id primitive.ObjectID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.trips[id]
	if !ok || tr.UserID != userID {
		return model.ErrNotFound
	}
	delete(t.s.trips, id)
	return nil
}

func (t *memTrips) List(_ context.Context, req model.ListTripRecordsRequest) (*model.TripRecordPage, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	items := []*model.TripRecord{}
	for _, tr := range t.s.trips {
		if tr.UserID == req.UserID {
			cp := *tr
			items = append(items, &cp)
		}
	}
	return &model.TripRecordPage{Page: req.Page, Limit: req.Limit, Total: int64(len(items)), Items: items}, nil
}
