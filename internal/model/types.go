package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visibility controls who can see a memory.
const (
	VisibilityPrivate = "private"
	VisibilityShared  = "shared"
)

// DefaultGroupColor is applied when a group is created without a color hint.
const DefaultGroupColor = "#FF8040"

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude/longitude.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Memory is a user-owned geotagged note with optional media attachments.
// Media fields hold object-storage keys, never URLs.
type Memory struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID     string              `bson:"userId" json:"userId"`
	Location   GeoPoint            `bson:"location" json:"location"`
	Anchor     []float64           `bson:"anchor,omitempty" json:"anchor,omitempty"`
	Text       *string             `bson:"text,omitempty" json:"text,omitempty"`
	PhotoKey   *string             `bson:"photoKey,omitempty" json:"photoKey,omitempty"`
	AudioKey   *string             `bson:"audioKey,omitempty" json:"audioKey,omitempty"`
	ThumbKey   *string             `bson:"thumbKey,omitempty" json:"thumbKey,omitempty"`
	Tags       []string            `bson:"tags" json:"tags"`
	Favorite   bool                `bson:"favorite" json:"favorite"`
	Visibility string              `bson:"visibility" json:"visibility"`
	GroupID    *primitive.ObjectID `bson:"groupId" json:"groupId"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// MemoryUpdate carries a partial update; nil fields are left untouched.
// GroupID uses a double pointer so callers can distinguish "unset" from
// "set to null" (detach from group).
type MemoryUpdate struct {
	Text       *string              `json:"text,omitempty"`
	PhotoKey   *string              `json:"photoKey,omitempty"`
	AudioKey   *string              `json:"audioKey,omitempty"`
	ThumbKey   *string              `json:"thumbKey,omitempty"`
	Tags       *[]string            `json:"tags,omitempty"`
	Favorite   *bool                `json:"favorite,omitempty"`
	Visibility *string              `json:"visibility,omitempty"`
	GroupID    **primitive.ObjectID `json:"groupId,omitempty"`
}

// Group is a named collection of users. The owner need not be a member.
type Group struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Color     string             `bson:"color" json:"color"`
	OwnerID   string             `bson:"ownerId" json:"ownerId"`
	Members   []string           `bson:"members" json:"members"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GroupSummary is the subset of group fields joined onto trip records.
type GroupSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Color string             `bson:"color" json:"color"`
}

// GroupUpdate carries a partial group update.
type GroupUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// TripRecord is a dated journal entry, optionally tied to a group and a place.
type TripRecord struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    string              `bson:"userId" json:"userId"`
	GroupID   *primitive.ObjectID `bson:"groupId" json:"groupId"`
	Title     string              `bson:"title" json:"title"`
	Content   string              `bson:"content" json:"content"`
	Date      time.Time           `bson:"date" json:"date"`
	PhotoKeys []string            `bson:"photoKeys" json:"photoKeys"`
	Location  *GeoPoint           `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TripRecordUpdate carries a partial trip-record update. Latitude and
// longitude must be supplied together to move the record's location.
type TripRecordUpdate struct {
	Title     *string              `json:"title,omitempty"`
	Content   *string              `json:"content,omitempty"`
	Date      *time.Time           `json:"date,omitempty"`
	PhotoKeys *[]string            `json:"photoKeys,omitempty"`
	GroupID   **primitive.ObjectID `json:"groupId,omitempty"`
	Latitude  *float64             `json:"latitude,omitempty"`
	Longitude *float64             `json:"longitude,omitempty"`
}

// ListMemoriesRequest captures filters used when listing memories.
type ListMemoriesRequest struct {
	UserID  string
	GroupID *primitive.ObjectID
	Query   string
	Tag     string
	Month   string // YYYY-MM, already validated
	Page    int
	Limit   int
}

// ListTripRecordsRequest captures filters used when listing trip records.
type ListTripRecordsRequest struct {
	UserID  string
	GroupID *primitive.ObjectID
	Query   string
	Month   string // YYYY-MM, already validated
	Page    int
	Limit   int
}

// ViewportRequest describes a map viewport query: points inside the
// rectangle ordered by distance to the center point.
type ViewportRequest struct {
	UserID    string
	SWLat     float64
	SWLng     float64
	NELat     float64
	NELng     float64
	CenterLat float64
	CenterLng float64
	Limit     int
}

// StatsRequest scopes the stats summary. Lat/Lng are optional; when absent
// the nearby count is zero.
type StatsRequest struct {
	UserID string
	Lat    *float64
	Lng    *float64
	Radius float64
}

// Stats is the memory stats summary. The three counts are independent;
// nearby and thisMonth are not subsets of each other.
type Stats struct {
	Total     int64 `json:"total"`
	Nearby    int64 `json:"nearby"`
	ThisMonth int64 `json:"thisMonth"`
}

// NearbyMemory is a memory annotated with its distance (meters) to the
// reference point of a viewport query.
type NearbyMemory struct {
	Memory `bson:",inline"`
	Dist   float64 `bson:"dist" json:"dist"`
}
