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

type groups struct{ c *mongo.Collection }

func (g *groups) Create(ctx context.Context, in *model.Group) (*model.Group, error) {
	out := *in
	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now
	if out.Color == "" {
		out.Color = model.DefaultGroupColor
	}
	if out.Members == nil {
		out.Members = []string{}
	}
	res, err := g.c.InsertOne(ctx, &out)
	if err != nil {
		return nil, err
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (g *groups) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Group, error) {
	var out model.Group
	err := g.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns groups the user owns or belongs to, newest first.
func (g *groups) List(ctx context.Context, userID string) ([]*model.Group, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"ownerId": userID},
		bson.M{"members": userID},
	}}
	cur, err := g.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	items := []*model.Group{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (g *groups) Update(ctx context.Context, ownerID string, id primitive.ObjectID, upd model.GroupUpdate) (*model.Group, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Color != nil {
		set["color"] = *upd.Color
	}
	return g.findOneAndUpdate(ctx, ownerID, id, bson.M{"$set": set})
}

func (g *groups) Delete(ctx context.Context, ownerID string, id primitive.ObjectID) (*model.Group, error) {
	var out model.Group
	err := g.c.FindOneAndDelete(ctx, bson.M{"_id": id, "ownerId": ownerID}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *groups) AddMember(ctx context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
	return g.findOneAndUpdate(ctx, ownerID, id, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (g *groups) RemoveMember(ctx context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error) {
	return g.findOneAndUpdate(ctx, ownerID, id, bson.M{
		"$pull": bson.M{"members": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (g *groups) findOneAndUpdate(ctx context.Context, ownerID string, id primitive.ObjectID, update bson.M) (*model.Group, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out model.Group
	err := g.c.FindOneAndUpdate(ctx, bson.M{"_id": id, "ownerId": ownerID}, update, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *groups) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.GroupSummary, error) {
	out := map[primitive.ObjectID]*model.GroupSummary{}
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"name": 1, "color": 1})
	cur, err := g.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var sums []*model.GroupSummary
	if err := cur.All(ctx, &sums); err != nil {
		return nil, err
	}
	for _, s := range sums {
		out[s.ID] = s
	}
	return out, nil
}
