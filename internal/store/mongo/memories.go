package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

type memories struct{ c *mongo.Collection }

func (m *memories) Create(ctx context.Context, in *model.Memory) (*model.Memory, error) {
	out := *in
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now
	if out.Visibility == "" {
		out.Visibility = model.VisibilityPrivate
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	res, err := m.c.InsertOne(ctx, &out)
	if err != nil {
		return nil, err
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (m *memories) GetByID(ctx context.Context, userID string, id primitive.ObjectID) (*model.Memory, error) {
	var out model.Memory
	err := m.c.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.MemoryUpdate) (*model.Memory, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Text != nil {
		set["text"] = *upd.Text
	}
	if upd.PhotoKey != nil {
		set["photoKey"] = *upd.PhotoKey
	}
	if upd.AudioKey != nil {
		set["audioKey"] = *upd.AudioKey
	}
	if upd.ThumbKey != nil {
		set["thumbKey"] = *upd.ThumbKey
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.Favorite != nil {
		set["favorite"] = *upd.Favorite
	}
	if upd.Visibility != nil {
		set["visibility"] = *upd.Visibility
	}
	if upd.GroupID != nil {
		if *upd.GroupID == nil {
			set["groupId"] = nil
		} else {
			set["groupId"] = **upd.GroupID
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out model.Memory
	err := m.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *memories) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := m.c.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (m *memories) List(ctx context.Context, req model.ListMemoriesRequest) (*model.MemoryPage, error) {
	filter, err := memoryListFilter(req)
	if err != nil {
		return nil, err
	}
	return m.page(ctx, filter, req.Page, req.Limit, bson.D{{Key: "createdAt", Value: -1}})
}

func (m *memories) ListByGroup(ctx context.Context, groupID primitive.ObjectID, page, limit int) (*model.MemoryPage, error) {
	return m.page(ctx, bson.M{"groupId": groupID}, page, limit, bson.D{{Key: "createdAt", Value: -1}})
}

// page applies the offset window and runs the unbounded count over the same
// filter.
func (m *memories) page(ctx context.Context, filter bson.M, page, limit int, sort bson.D) (*model.MemoryPage, error) {
	total, err := m.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := m.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	items := []*model.Memory{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return &model.MemoryPage{Page: page, Limit: limit, Total: total, Items: items}, nil
}

func (m *memories) FindNear(ctx context.Context, userID string, lat, lng, radiusMeters float64, limit int) ([]*model.Memory, error) {
	filter := bson.M{
		"userId":   userID,
		"location": nearSphere(lat, lng, radiusMeters),
	}
	cur, err := m.c.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	items := []*model.Memory{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *memories) FindInView(ctx context.Context, req model.ViewportRequest) ([]*model.NearbyMemory, error) {
	// A zero-area rectangle is not a valid polygon for the server; by
	// contract it matches nothing.
	if req.SWLat == req.NELat || req.SWLng == req.NELng {
		return []*model.NearbyMemory{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near":          geoJSONPoint(req.CenterLat, req.CenterLng),
			"distanceField": "dist",
			"spherical":     true,
			"query": bson.M{
				"userId": req.UserID,
				"location": bson.M{"$geoWithin": bson.M{
					"$geometry": viewportPolygon(req.SWLat, req.SWLng, req.NELat, req.NELng),
				}},
			},
		}}},
		{{Key: "$limit", Value: req.Limit}},
	}
	cur, err := m.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	items := []*model.NearbyMemory{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *memories) Stats(ctx context.Context, req model.StatsRequest) (*model.Stats, error) {
	base := bson.M{"userId": req.UserID}

	total, err := m.c.CountDocuments(ctx, base)
	if err != nil {
		return nil, err
	}

	var nearby int64
	if req.Lat != nil && req.Lng != nil {
		f := bson.M{"userId": req.UserID, "location": centerSphere(*req.Lat, *req.Lng, req.Radius)}
		nearby, err = m.c.CountDocuments(ctx, f)
		if err != nil {
			return nil, err
		}
	}

	start, end := currentMonthRange(time.Now())
	thisMonth, err := m.c.CountDocuments(ctx, bson.M{
		"userId":    req.UserID,
		"createdAt": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return nil, err
	}

	return &model.Stats{Total: total, Nearby: nearby, ThisMonth: thisMonth}, nil
}

func (m *memories) DetachGroup(ctx context.Context, groupID primitive.ObjectID) error {
	_, err := m.c.UpdateMany(ctx,
		bson.M{"groupId": groupID},
		bson.M{"$set": bson.M{"groupId": nil, "updatedAt": time.Now().UTC()}},
	)
	return err
}
