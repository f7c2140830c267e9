package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// TripService orchestrates trip-record use cases: owner-scoped CRUD, photo
// URL hydration, and joining the group summary onto each record.
type TripService struct {
	store  store.Store
	signer blob.Signer
}

func NewTripService(s store.Store, sg blob.Signer) *TripService {
	return &TripService{store: s, signer: sg}
}

func (s *TripService) Create(ctx context.Context, t *model.TripRecord) (*model.TripRecordView, error) {
	out, err := s.store.TripRecords().Create(ctx, t)
	if err != nil {
		return nil, err
	}
	return s.withGroup(ctx, hydrateTrip(ctx, s.signer, out))
}

func (s *TripService) Get(ctx context.Context, userID string, id primitive.ObjectID) (*model.TripRecordView, error) {
	out, err := s.store.TripRecords().GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.withGroup(ctx, hydrateTrip(ctx, s.signer, out))
}

func (s *TripService) Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.TripRecordUpdate) (*model.TripRecordView, error) {
	out, err := s.store.TripRecords().Update(ctx, userID, id, upd)
	if err != nil {
		return nil, err
	}
	return s.withGroup(ctx, hydrateTrip(ctx, s.signer, out))
}

func (s *TripService) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	return s.store.TripRecords().Delete(ctx, userID, id)
}

func (s *TripService) List(ctx context.Context, req model.ListTripRecordsRequest) (*model.TripRecordPageView, error) {
	page, err := s.store.TripRecords().List(ctx, req)
	if err != nil {
		return nil, err
	}
	views := hydrateTrips(ctx, s.signer, page.Items)
	if err := s.joinGroups(ctx, views); err != nil {
		return nil, err
	}
	return &model.TripRecordPageView{
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
		Items: views,
	}, nil
}

func (s *TripService) withGroup(ctx context.Context, v *model.TripRecordView) (*model.TripRecordView, error) {
	if err := s.joinGroups(ctx, []*model.TripRecordView{v}); err != nil {
		return nil, err
	}
	return v, nil
}

// joinGroups resolves the distinct group ids of the batch in one query and
// attaches {name, color} summaries. Records whose group has since been
// deleted keep a null group.
func (s *TripService) joinGroups(ctx context.Context, views []*model.TripRecordView) error {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, v := range views {
		if v.GroupID != nil && !seen[*v.GroupID] {
			seen[*v.GroupID] = true
			ids = append(ids, *v.GroupID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sums, err := s.store.Groups().Summaries(ctx, ids)
	if err != nil {
		return err
	}
	for _, v := range views {
		if v.GroupID != nil {
			v.Group = sums[*v.GroupID]
		}
	}
	return nil
}
