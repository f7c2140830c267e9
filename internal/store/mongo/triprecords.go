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

type tripRecords struct{ c *mongo.Collection }

func (t *tripRecords) Create(ctx context.Context, in *model.TripRecord) (*model.TripRecord, error) {
	out := *in
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now
	if out.PhotoKeys == nil {
		out.PhotoKeys = []string{}
	}
	res, err := t.c.InsertOne(ctx, &out)
	if err != nil {
		return nil, err
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (t *tripRecords) GetByID(ctx context.Context, userID string, id primitive.ObjectID) (*model.TripRecord, error) {
	var out model.TripRecord
	err := t.c.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *tripRecords) Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.TripRecordUpdate) (*model.TripRecord, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Content != nil {
		set["content"] = *upd.Content
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}
	if upd.PhotoKeys != nil {
		set["photoKeys"] = *upd.PhotoKeys
	}
	if upd.GroupID != nil {
		if *upd.GroupID == nil {
			set["groupId"] = nil
		} else {
			set["groupId"] = **upd.GroupID
		}
	}
	if upd.Latitude != nil && upd.Longitude != nil {
		set["location"] = geoJSONPoint(*upd.Latitude, *upd.Longitude)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out model.TripRecord
	err := t.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": set}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *tripRecords) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := t.c.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (t *tripRecords) List(ctx context.Context, req model.ListTripRecordsRequest) (*model.TripRecordPage, error) {
	filter, err := tripListFilter(req)
	if err != nil {
		return nil, err
	}

	total, err := t.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(int64((req.Page - 1) * req.Limit)).
		SetLimit(int64(req.Limit))
	cur, err := t.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	items := []*model.TripRecord{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return &model.TripRecordPage{Page: req.Page, Limit: req.Limit, Total: total, Items: items}, nil
}
