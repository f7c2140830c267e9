package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// nearSearchLimit is the safety cap on the radius-search list endpoint.
const nearSearchLimit = 500

// MemoryService orchestrates memory use cases: persistence plus signed-URL
// hydration of every read path.
type MemoryService struct {
	store  store.Store
	signer blob.Signer
}

func NewMemoryService(s store.Store, sg blob.Signer) *MemoryService {
	return &MemoryService{store: s, signer: sg}
}

func (s *MemoryService) Create(ctx context.Context, m *model.Memory) (*model.MemoryView, error) {
	out, err := s.store.Memories().Create(ctx, m)
	if err != nil {
		return nil, err
	}
	return hydrateMemory(ctx, s.signer, out), nil
}

func (s *MemoryService) Get(ctx context.Context, userID string, id primitive.ObjectID) (*model.MemoryView, error) {
	out, err := s.store.Memories().GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return hydrateMemory(ctx, s.signer, out), nil
}

func (s *MemoryService) Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.MemoryUpdate) (*model.MemoryView, error) {
	out, err := s.store.Memories().Update(ctx, userID, id, upd)
	if err != nil {
		return nil, err
	}
	return hydrateMemory(ctx, s.signer, out), nil
}

func (s *MemoryService) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	return s.store.Memories().Delete(ctx, userID, id)
}

func (s *MemoryService) List(ctx context.Context, req model.ListMemoriesRequest) (*model.MemoryPageView, error) {
	page, err := s.store.Memories().List(ctx, req)
	if err != nil {
		return nil, err
	}
	return &model.MemoryPageView{
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Items: hydrateMemories(ctx, s.signer, page.Items),
	}, nil
}

// FindNear returns memories within radiusMeters of the point, nearest first.
func (s *MemoryService) FindNear(ctx context.Context, userID string, lat, lng, radiusMeters float64) ([]*model.MemoryView, error) {
	items, err := s.store.Memories().FindNear(ctx, userID, lat, lng, radiusMeters, nearSearchLimit)
	if err != nil {
		return nil, err
	}
	return hydrateMemories(ctx, s.signer, items), nil
}

// FindInView returns memories inside the viewport ordered by distance to its
// center, each annotated with that distance.
func (s *MemoryService) FindInView(ctx context.Context, req model.ViewportRequest) ([]*model.MemoryView, error) {
	items, err := s.store.Memories().FindInView(ctx, req)
	if err != nil {
		return nil, err
	}
	return hydrateNearby(ctx, s.signer, items), nil
}

func (s *MemoryService) Stats(ctx context.Context, req model.StatsRequest) (*model.Stats, error) {
	return s.store.Memories().Stats(ctx, req)
}
