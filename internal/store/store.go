package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., mongo).
type Store interface {
	Memories() Memories
	Groups() Groups
	TripRecords() TripRecords
}

// Memories persists geotagged memories. All operations except ListByGroup and
// DetachGroup are scoped to the owning user; an ID that exists but belongs to
// another user behaves as absent.
type Memories interface {
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	GetByID(ctx context.Context, userID string, id primitive.ObjectID) (*model.Memory, error)
	Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.MemoryUpdate) (*model.Memory, error)
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
	List(ctx context.Context, req model.ListMemoriesRequest) (*model.MemoryPage, error)
	ListByGroup(ctx context.Context, groupID primitive.ObjectID, page, limit int) (*model.MemoryPage, error)

	// FindNear returns memories within radiusMeters of (lat,lng), ascending
	// by distance, at most limit items.
	FindNear(ctx context.Context, userID string, lat, lng, radiusMeters float64, limit int) ([]*model.Memory, error)

	// FindInView returns memories inside the viewport rectangle ordered by
	// distance to the center point. An empty viewport yields an empty slice.
	FindInView(ctx context.Context, req model.ViewportRequest) ([]*model.NearbyMemory, error)

	Stats(ctx context.Context, req model.StatsRequest) (*model.Stats, error)

	// DetachGroup clears groupId on every memory of the group. Applied as an
	// independent write after group deletion, not transactionally.
	DetachGroup(ctx context.Context, groupID primitive.ObjectID) error
}

// Groups persists groups. Mutations are owner-gated at the query level: a
// non-owner sees model.ErrNotFound, never a permission hint.
type Groups interface {
	Create(ctx context.Context, g *model.Group) (*model.Group, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Group, error)
	List(ctx context.Context, userID string) ([]*model.Group, error)
	Update(ctx context.Context, ownerID string, id primitive.ObjectID, upd model.GroupUpdate) (*model.Group, error)
	Delete(ctx context.Context, ownerID string, id primitive.ObjectID) (*model.Group, error)
	AddMember(ctx context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error)
	RemoveMember(ctx context.Context, ownerID string, id primitive.ObjectID, userID string) (*model.Group, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.GroupSummary, error)
}

// TripRecords persists trip journal entries, always scoped to the owner.
type TripRecords interface {
	Create(ctx context.Context, t *model.TripRecord) (*model.TripRecord, error)
	GetByID(ctx context.Context, userID string, id primitive.ObjectID) (*model.TripRecord, error)
	Update(ctx context.Context, userID string, id primitive.ObjectID, upd model.TripRecordUpdate) (*model.TripRecord, error)
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
	List(ctx context.Context, req model.ListTripRecordsRequest) (*model.TripRecordPage, error)
}
