package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var monthRx = regexp.MustCompile(`^\d{4}-\d{2}$`)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	defaultViewLimit = 200
	maxViewLimit     = 1000
)

// PageLimit parses page/limit query values. Empty values fall back to
// page 1 / limit 20; limit is capped at 100.
func PageLimit(pageStr, limitStr string) (int, int, error) {
	page := 1
	if pageStr != "" {
		v, err := strconv.Atoi(pageStr)
		if err != nil || v < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = v
	}
	limit := defaultPageLimit
	if limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 || v > maxPageLimit {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxPageLimit)
		}
		limit = v
	}
	return page, limit, nil
}

// Latitude parses a required latitude query value.
func Latitude(field, s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -90 || v > 90 {
		return 0, fmt.Errorf("%s must be a latitude between -90 and 90", field)
	}
	return v, nil
}

// Longitude parses a required longitude query value.
func Longitude(field, s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < -180 || v > 180 {
		return 0, fmt.Errorf("%s must be a longitude between -180 and 180", field)
	}
	return v, nil
}

// OptionalLatitude parses an optional latitude; empty yields nil.
func OptionalLatitude(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := Latitude(field, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// OptionalLongitude parses an optional longitude; empty yields nil.
func OptionalLongitude(field, s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := Longitude(field, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Radius parses a radius in meters, falling back to def when empty.
func Radius(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("radius must be a positive number of meters")
	}
	return v, nil
}

// ViewLimit parses the viewport result cap. Empty falls back to 200;
// anything above 1000 is rejected.
func ViewLimit(s string) (int, error) {
	if s == "" {
		return defaultViewLimit, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > maxViewLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxViewLimit)
	}
	return v, nil
}

// Month checks a YYYY-MM filter value. Empty is allowed (no filter).
func Month(s string) error {
	if s == "" {
		return nil
	}
	if !monthRx.MatchString(s) {
		return fmt.Errorf("month must be YYYY-MM")
	}
	if _, err := time.ParseInLocation("2006-01", s, time.UTC); err != nil {
		return fmt.Errorf("month must be a valid YYYY-MM")
	}
	return nil
}

// Visibility checks the memory visibility enum. Empty is allowed (defaulted).
func Visibility(s string) error {
	if s == "" || s == "private" || s == "shared" {
		return nil
	}
	return fmt.Errorf("visibility must be private or shared")
}

// -------- Request specific helpers ----------

// CreateMemory validates the memory creation body. Coordinates are
// mandatory; everything else is optional.
func CreateMemory(lat, lng *float64, visibility string) error {
	if lat == nil || lng == nil {
		return fmt.Errorf("latitude and longitude are required")
	}
	if *lat < -90 || *lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if *lng < -180 || *lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return Visibility(visibility)
}

// CreateGroup validates the group creation body.
func CreateGroup(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 50 {
		return fmt.Errorf("name exceeds 50 characters")
	}
	return nil
}

// CreateTripRecord validates the trip-record creation body. Latitude and
// longitude must be supplied together or not at all.
func CreateTripRecord(title string, date time.Time, lat, lng *float64) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > 100 {
		return fmt.Errorf("title exceeds 100 characters")
	}
	if date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if (lat == nil) != (lng == nil) {
		return fmt.Errorf("latitude and longitude must be supplied together")
	}
	if lat != nil {
		if *lat < -90 || *lat > 90 {
			return fmt.Errorf("latitude must be between -90 and 90")
		}
		if *lng < -180 || *lng > 180 {
			return fmt.Errorf("longitude must be between -180 and 180")
		}
	}
	return nil
}
