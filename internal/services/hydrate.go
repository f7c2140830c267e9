package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

// signKey resolves one object key to a signed read URL. A missing key or a
// signing failure degrades to nil; hydration never fails a request.
func signKey(ctx context.Context, sg blob.Signer, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url, err := sg.SignedReadURL(ctx, *key)
	if err != nil {
		log.Warn().Err(err).Str("key", *key).Msg("signed URL generation failed, field degrades to null")
		return nil
	}
	return &url
}

// hydrateMemory signs the memory's media keys concurrently. Each field is
// independent; a slow or failing key never blocks the others.
func hydrateMemory(ctx context.Context, sg blob.Signer, m *model.Memory) *model.MemoryView {
	v := &model.MemoryView{Memory: m}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { v.PhotoURL = signKey(gctx, sg, m.PhotoKey); return nil })
	g.Go(func() error { v.AudioURL = signKey(gctx, sg, m.AudioKey); return nil })
	g.Go(func() error { v.ThumbURL = signKey(gctx, sg, m.ThumbKey); return nil })
	_ = g.Wait()
	return v
}

func hydrateMemories(ctx context.Context, sg blob.Signer, items []*model.Memory) []*model.MemoryView {
	views := make([]*model.MemoryView, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range items {
		g.Go(func() error {
			views[i] = hydrateMemory(gctx, sg, m)
			return nil
		})
	}
	_ = g.Wait()
	return views
}

func hydrateNearby(ctx context.Context, sg blob.Signer, items []*model.NearbyMemory) []*model.MemoryView {
	views := make([]*model.MemoryView, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, nm := range items {
		g.Go(func() error {
			v := hydrateMemory(gctx, sg, &nm.Memory)
			dist := nm.Dist
			v.Dist = &dist
			views[i] = v
			return nil
		})
	}
	_ = g.Wait()
	return views
}

// hydrateTrip signs every element of the photo-key sequence; positions are
// preserved and a failed element becomes null.
func hydrateTrip(ctx context.Context, sg blob.Signer, t *model.TripRecord) *model.TripRecordView {
	v := &model.TripRecordView{TripRecord: t, PhotoURLs: make([]*string, len(t.PhotoKeys))}
	g, gctx := errgroup.WithContext(ctx)
	for i := range t.PhotoKeys {
		key := t.PhotoKeys[i]
		g.Go(func() error {
			v.PhotoURLs[i] = signKey(gctx, sg, &key)
			return nil
		})
	}
	_ = g.Wait()
	return v
}

func hydrateTrips(ctx context.Context, sg blob.Signer, items []*model.TripRecord) []*model.TripRecordView {
	views := make([]*model.TripRecordView, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range items {
		g.Go(func() error {
			views[i] = hydrateTrip(gctx, sg, t)
			return nil
		})
	}
	_ = g.Wait()
	return views
}
