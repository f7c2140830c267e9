package model

// MemoryPage is one window of a paginated memory listing. Total counts every
// match, not just the window.
type MemoryPage struct {
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int64     `json:"total"`
	Items []*Memory `json:"items"`
}

// TripRecordPage is one window of a paginated trip-record listing.
type TripRecordPage struct {
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
	Items []*TripRecord `json:"items"`
}

// MemoryView is a memory as returned to clients: stored object keys plus
// short-lived signed read URLs. A URL is null when its key is absent or
// signing failed.
type MemoryView struct {
	*Memory
	PhotoURL *string  `json:"photoUrl"`
	AudioURL *string  `json:"audioUrl"`
	ThumbURL *string  `json:"thumbUrl"`
	Dist     *float64 `json:"dist,omitempty"`
}

// MemoryPageView is a MemoryPage with hydrated items.
type MemoryPageView struct {
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
	Items []*MemoryView `json:"items"`
}

// TripRecordView is a trip record with signed photo URLs and the summary of
// its group, when it has one.
type TripRecordView struct {
	*TripRecord
	PhotoURLs []*string     `json:"photoUrls"`
	Group     *GroupSummary `json:"group,omitempty"`
}

// TripRecordPageView is a TripRecordPage with hydrated items.
type TripRecordPageView struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Items []*TripRecordView `json:"items"`
}
