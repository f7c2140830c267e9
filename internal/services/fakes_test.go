package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// fakeSigner signs keys deterministically and can be told to fail for
// specific keys.
type fakeSigner struct {
	mu       sync.Mutex
	failKeys map[string]bool
	uploads  map[string][]byte
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{failKeys: map[string]bool{}, uploads: map[string][]byte{}}
}

func (f *fakeSigner) SignedReadURL(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return "", fmt.Errorf("signer unavailable for %s", key)
	}
	return "https://signed.example/" + key, nil
}

func (f *fakeSigner) SignedUploadURL(_ context.Context, key, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return "", fmt.Errorf("signer unavailable for %s", key)
	}
	return "https://upload.example/" + key, nil
}

func (f *fakeSigner) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return fmt.Errorf("upload failed for %s", key)
	}
	f.uploads[key] = data
	return nil
}

// fakeStore is a map-backed store.Store good enough for service-level tests.
// Query semantics (geo ordering, regex matching) live in the mongo driver and
// are not reproduced here.
type fakeStore struct {
	mu       sync.Mutex
	memories map[primitive.ObjectID]*model.Memory
	groups   map[primitive.ObjectID]*model.Group
	trips    map[primitive.ObjectID]*model.TripRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		memories: map[primitive.ObjectID]*model.Memory{},
		groups:   map[primitive.ObjectID]*model.Group{},
		trips:    map[primitive.ObjectID]*model.TripRecord{},
	}
}

func (f *fakeStore) Memories() store.Memories       { return &fakeMemories{f} }
func (f *fakeStore) Groups() store.Groups           { return &fakeGroups{f} }
func (f *fakeStore) TripRecords() store.TripRecords { return &fakeTrips{f} }

type fakeMemories struct{ s *fakeStore }

func (m *fakeMemories) Create(_ context.Context, in *model.Memory) (*model.Memory, error) {
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

func (m *fakeMemories) GetByID(_ context.Context, userID string, id primitive.ObjectID) (*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.memories[id]
	if !ok || mem.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *fakeMemories) Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.MemoryUpdate) (*model.Memory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.memories[id]
	if !ok || mem.UserID != userID {
		return nil, model.ErrNotFound
	}
	if upd.Text != nil {
		mem.Text = upd.Text
	}
	if upd.Tags != nil {
		mem.Tags = *upd.Tags
	}
	if upd.Favorite != nil {
		mem.Favorite = *upd.Favorite
	}
	if upd.GroupID != nil {
		mem.GroupID = *upd.GroupID
	}
	mem.UpdatedAt = time.Now().UTC()
	cp := *mem
	return &cp, nil
}

func (m *fakeMemories) Delete(_ context.Context, userID string, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mem, ok := m.s.memories[id]
	if !ok || mem.UserID != userID {
		return model.ErrNotFound
	}
	delete(m.s.memories, id)
	return nil
}

func (m *fakeMemories) List(_ context.Context, req model.ListMemoriesRequest) (*model.MemoryPage, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := []*model.Memory{}
	for _, mem := range m.s.memories {
		if mem.UserID != req.UserID {
			continue
		}
		if req.Tag != "" && !slices.Contains(mem.Tags, req.Tag) {
			continue
		}
		cp := *mem
		items = append(items, &cp)
	}
	return &model.MemoryPage{Page: req.Page, Limit: req.Limit, Total: int64(len(items)), Items: items}, nil
}

func (m *fakeMemories) ListByGroup(_ context.Context, groupID primitive.ObjectID, page, limit int) (*model.MemoryPage, error) {
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

func (m *fakeMemories) FindNear(_ context.Context, userID string, _, _, _ float64, _ int) ([]*model.Memory, error) {
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

func (m *fakeMemories) FindInView(_ context.Context, req model.ViewportRequest) ([]*model.NearbyMemory, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := []*model.NearbyMemory{}
	for _, mem := range m.s.memories {
		if mem.UserID == req.UserID {
			items = append(items, &model.NearbyMemory{Memory: *mem, Dist: 42.5})
		}
	}
	return items, nil
}

func (m *fakeMemories) Stats(_ context.Context, req model.StatsRequest) (*model.Stats, error) {
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

func (m *fakeMemories) DetachGroup(_ context.Context, groupID primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, mem := range m.s.memories {
		if mem.GroupID != nil && *mem.GroupID == groupID {
			mem.GroupID = nil
		}
	}
	return nil
}

type fakeGroups struct{ s *fakeStore }

func (g *fakeGroups) Create(_ context.Context, in *model.Group) (*model.Group, error) {
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

func (g *fakeGroups) GetByID(_ context.Context, id primitive.ObjectID) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *grp
	return &cp, nil
}

func (g *fakeGroups) List(_ context.Context, userID string) ([]*model.Group, error) {
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

func (g *fakeGroups) Update(_ context.Context, ownerID string, id primitive.ObjectID, upd model.GroupUpdate) (*model.Group, error) {
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

func (g *fakeGroups) Delete(_ context.Context, ownerID string, id primitive.ObjectID) (*model.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok || grp.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	delete(g.s.groups, id)
	return grp, nil
}

func (g *fakeGroups) AddMember(_ context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
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

func (g *fakeGroups) RemoveMember(_ context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
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

func (g *fakeGroups) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.GroupSummary, error) {
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

type fakeTrips struct{ s *fakeStore }

func (t *fakeTrips) Create(_ context.Context, in *model.TripRecord) (*model.TripRecord, error) {
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

func (t *fakeTrips) GetByID(_ context.Context, userID string, id primitive.ObjectID) (*model.TripRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.trips[id]
	if !ok || tr.UserID != userID {
		return nil, model.ErrNotFound
	}
	cp := *tr
	return &cp, nil
}

func (t *fakeTrips) Update(_ context.Context, userID string, id primitive.ObjectID, upd model.TripRecordUpdate) (*model.TripRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.trips[id]
	if !ok || tr.UserID != userID {
		return nil, model.ErrNotFound
	}
	if upd.Title != nil {
		tr.Title = *upd.Title
	}
	if upd.Content != nil {
		tr.Content = *upd.Content
	}
	if upd.GroupID != nil {
		tr.GroupID = *upd.GroupID
	}
	if upd.Latitude != nil && upd.Longitude != nil {
		loc := model.NewGeoPoint(*upd.Latitude, *upd.Longitude)
		tr.Location = &loc
	}
	cp := *tr
	return &cp, nil
}

func (t *fakeTrips) Delete(_ context.Context, userID string, id primitive.ObjectID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tr, ok := t.s.trips[id]
	if !ok || tr.UserID != userID {
		return model.ErrNotFound
	}
	delete(t.s.trips, id)
	return nil
}

func (t *fakeTrips) List(_ context.Context, req model.ListTripRecordsRequest) (*model.TripRecordPage, error) {
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
