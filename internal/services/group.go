package services

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// GroupService orchestrates group use cases. Mutations are owner-gated;
// reads admit the owner and members. A caller without access sees
// model.ErrNotFound, never a permission hint.
type GroupService struct {
	store  store.Store
	signer blob.Signer
}

func NewGroupService(s store.Store, sg blob.Signer) *GroupService {
	return &GroupService{store: s, signer: sg}
}

func (s *GroupService) Create(ctx context.Context, g *model.Group) (*model.Group, error) {
	return s.store.Groups().Create(ctx, g)
}

func (s *GroupService) List(ctx context.Context, userID string) ([]*model.Group, error) {
	return s.store.Groups().List(ctx, userID)
}

func (s *GroupService) Get(ctx context.Context, userID string, id primitive.ObjectID) (*model.Group, error) {
	g, err := s.store.Groups().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(g, userID) {
		return nil, model.ErrNotFound
	}
	return g, nil
}

func (s *GroupService) Update(ctx context.Context, ownerID string, id primitive.ObjectID, upd model.GroupUpdate) (*model.Group, error) {
	return s.store.Groups().Update(ctx, ownerID, id, upd)
}

// Delete removes the group, then detaches its memories. The detach is a
// second independent write: on failure the memories keep a dangling groupId
// until the next delete attempt, which the domain tolerates.
func (s *GroupService) Delete(ctx context.Context, ownerID string, id primitive.ObjectID) error {
	deleted, err := s.store.Groups().Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.store.Memories().DetachGroup(ctx, deleted.ID); err != nil {
		log.Error().Err(err).Str("groupId", deleted.ID.Hex()).Msg("detaching memories after group delete failed")
		return err
	}
	return nil
}

func (s *GroupService) AddMember(ctx context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
	return s.store.Groups().AddMember(ctx, ownerID, id, userID)
}

func (s *GroupService) RemoveMember(ctx context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
	return s.store.Groups().RemoveMember(ctx, ownerID, id, userID)
}

// ListMemories pages through the group's memories. Access requires ownership
// or membership of the group itself.
func (s *GroupService) ListMemories(ctx context.Context, userID string, id primitive.ObjectID, page, limit int) (*model.MemoryPageView, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	p, err := s.store.Memories().ListByGroup(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	return &model.MemoryPageView{
		Page:  p.Page,
		Limit: p.Limit,
		Total: p.Total,
		Items: hydrateMemories(ctx, s.signer, p.Items),
	}, nil
}

func canRead(g *model.Group, userID string) bool {
	return g.OwnerID == userID || slices.Contains(g.Members, userID)
}
