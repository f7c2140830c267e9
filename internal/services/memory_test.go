package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

func strptr(s string) *string { return &s }

func TestMemoryService_HydratesMediaKeys(t *testing.T) {
	st := newFakeStore()
	sg := newFakeSigner()
	svc := NewMemoryService(st, sg)

	created, err := svc.Create(context.Background(), &model.Memory{
		UserID:   "u1",
		Location: model.NewGeoPoint(37.5, 127.0),
		PhotoKey: strptr("2024-01-01/x.jpg"),
		ThumbKey: strptr("2024-01-01/x.thumb.jpg"),
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "u1", created.ID)
	require.NoError(t, err)

	require.NotNil(t, got.PhotoURL)
	assert.Equal(t, "https://signed.example/2024-01-01/x.jpg", *got.PhotoURL)
	require.NotNil(t, got.ThumbURL)
	assert.Equal(t, "https://signed.example/2024-01-01/x.thumb.jpg", *got.ThumbURL)
	assert.Nil(t, got.AudioURL)

	// Hydration must not rewrite the persisted keys.
	require.NotNil(t, got.PhotoKey)
	assert.Equal(t, "2024-01-01/x.jpg", *got.PhotoKey)
}

func TestMemoryService_SigningFailureDegradesFieldToNull(t *testing.T) {
	st := newFakeStore()
	sg := newFakeSigner()
	sg.failKeys["broken.jpg"] = true
	svc := NewMemoryService(st, sg)

	created, err := svc.Create(context.Background(), &model.Memory{
		UserID:   "u1",
		Location: model.NewGeoPoint(37.5, 127.0),
		PhotoKey: strptr("broken.jpg"),
		AudioKey: strptr("ok.m4a"),
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "u1", created.ID)
	require.NoError(t, err)

	assert.Nil(t, got.PhotoURL, "failed key must degrade to null, not fail the request")
	require.NotNil(t, got.AudioURL, "unrelated fields must still hydrate")
}

func TestMemoryService_GetScopedToOwner(t *testing.T) {
	st := newFakeStore()
	svc := NewMemoryService(st, newFakeSigner())

	created, err := svc.Create(context.Background(), &model.Memory{
		UserID:   "u1",
		Location: model.NewGeoPoint(37.5, 127.0),
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "u2", created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryService_ListHydratesEveryItem(t *testing.T) {
	st := newFakeStore()
	svc := NewMemoryService(st, newFakeSigner())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, &model.Memory{
			UserID:   "u1",
			Location: model.NewGeoPoint(37.5, 127.0),
			PhotoKey: strptr("k.jpg"),
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, model.ListMemoriesRequest{UserID: "u1", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	for _, item := range page.Items {
		require.NotNil(t, item.PhotoURL)
	}
}

func TestMemoryService_FindInViewCarriesDistance(t *testing.T) {
	st := newFakeStore()
	svc := NewMemoryService(st, newFakeSigner())
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Memory{UserID: "u1", Location: model.NewGeoPoint(37.5, 127.0)})
	require.NoError(t, err)

	items, err := svc.FindInView(ctx, model.ViewportRequest{
		UserID: "u1",
		SWLat:  37.0, SWLng: 126.0, NELat: 38.0, NELng: 128.0,
		CenterLat: 37.5, CenterLng: 127.0, Limit: 200,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Dist)
}

func TestMemoryService_TagRoundTrip(t *testing.T) {
	st := newFakeStore()
	svc := NewMemoryService(st, newFakeSigner())
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.Memory{
		UserID:   "u1",
		Location: model.NewGeoPoint(37.5, 127.0),
		Tags:     []string{"a", "b"},
	})
	require.NoError(t, err)

	withA, err := svc.List(ctx, model.ListMemoriesRequest{UserID: "u1", Tag: "a", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), withA.Total)

	withC, err := svc.List(ctx, model.ListMemoriesRequest{UserID: "u1", Tag: "c", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), withC.Total)
	assert.Empty(t, withC.Items)
}
