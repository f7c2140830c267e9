package mongo

import (
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/yoyowasi/ar-memo-backend/internal/model"
)

// earthRadiusMeters is the sphere radius MongoDB assumes for $centerSphere,
// which takes its radius in radians.
const earthRadiusMeters = 6378137.0

// memoryListFilter translates validated list parameters into a bson filter.
// Construction is pure: same request, same filter.
func memoryListFilter(req model.ListMemoriesRequest) (bson.M, error) {
	f := bson.M{"userId": req.UserID}
	if req.GroupID != nil {
		f["groupId"] = *req.GroupID
	}
	if req.Tag != "" {
		f["tags"] = req.Tag
	}
	if req.Query != "" {
		f["$or"] = bson.A{
			bson.M{"text": bson.M{"$regex": regexp.QuoteMeta(req.Query), "$options": "i"}},
			bson.M{"tags": bson.M{"$in": bson.A{req.Query}}},
		}
	}
	if req.Month != "" {
		start, end, err := monthRange(req.Month)
		if err != nil {
			return nil, err
		}
		f["createdAt"] = bson.M{"$gte": start, "$lt": end}
	}
	return f, nil
}

// tripListFilter is the trip-record counterpart: free text matches the title,
// the month window applies to the trip date.
func tripListFilter(req model.ListTripRecordsRequest) (bson.M, error) {
	f := bson.M{"userId": req.UserID}
	if req.GroupID != nil {
		f["groupId"] = *req.GroupID
	}
	if req.Query != "" {
		f["title"] = bson.M{"$regex": regexp.QuoteMeta(req.Query), "$options": "i"}
	}
	if req.Month != "" {
		start, end, err := monthRange(req.Month)
		if err != nil {
			return nil, err
		}
		f["date"] = bson.M{"$gte": start, "$lt": end}
	}
	return f, nil
}

// monthRange expands "YYYY-MM" into the half-open UTC range
// [start of month, start of next month).
func monthRange(month string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01", month, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// currentMonthRange returns the half-open UTC window of the month containing now.
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// geoJSONPoint builds a GeoJSON point document, [lng, lat] order.
func geoJSONPoint(lat, lng float64) bson.M {
	return bson.M{"type": "Point", "coordinates": bson.A{lng, lat}}
}

// viewportPolygon builds the closed rectangle SW -> SE -> NE -> NW -> SW.
func viewportPolygon(swLat, swLng, neLat, neLng float64) bson.M {
	ring := bson.A{
		bson.A{swLng, swLat},
		bson.A{neLng, swLat},
		bson.A{neLng, neLat},
		bson.A{swLng, neLat},
		bson.A{swLng, swLat},
	}
	return bson.M{"type": "Polygon", "coordinates": bson.A{ring}}
}

// nearSphere builds a proximity predicate with $maxDistance in meters.
// Results sort ascending by distance.
func nearSphere(lat, lng, radiusMeters float64) bson.M {
	return bson.M{"$nearSphere": bson.M{
		"$geometry":    geoJSONPoint(lat, lng),
		"$maxDistance": radiusMeters,
	}}
}

// centerSphere builds a bounding-circle containment predicate. Unlike
// $nearSphere it is usable in count queries; the radius unit is radians.
func centerSphere(lat, lng, radiusMeters float64) bson.M {
	return bson.M{"$geoWithin": bson.M{
		"$centerSphere": bson.A{bson.A{lng, lat}, radiusMeters / earthRadiusMeters},
	}}
}
