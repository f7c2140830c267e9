package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/api/respond"
	"github.com/yoyowasi/ar-memo-backend/internal/api/validate"
	"github.com/yoyowasi/ar-memo-backend/internal/config"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/services"
)

type TripHandler struct {
	svc *services.TripService
	cfg *config.Config
}

func NewTripHandler(svc *services.TripService, cfg *config.Config) *TripHandler {
	return &TripHandler{svc: svc, cfg: cfg}
}

// CreateTripRecord POST /api/trip-records
func (h *TripHandler) CreateTripRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Title     string    `json:"title"`
		Content   string    `json:"content,omitempty"`
		Date      time.Time `json:"date"`
		GroupID   *string   `json:"groupId,omitempty"`
		PhotoKeys []string  `json:"photoKeys,omitempty"`
		Latitude  *float64  `json:"latitude,omitempty"`
		Longitude *float64  `json:"longitude,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateTripRecord(req.Title, req.Date, req.Latitude, req.Longitude); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	tr := &model.TripRecord{
		UserID:    user.UserID,
		Title:     req.Title,
		Content:   req.Content,
		Date:      req.Date,
		PhotoKeys: req.PhotoKeys,
	}
	if req.GroupID != nil {
		gid, err := primitive.ObjectIDFromHex(*req.GroupID)
		if err != nil {
			respond.WriteBadRequest(w, "groupId must be a valid id")
			return
		}
		tr.GroupID = &gid
	}
	if req.Latitude != nil {
		loc := model.NewGeoPoint(*req.Latitude, *req.Longitude)
		tr.Location = &loc
	}

	out, err := h.svc.Create(r.Context(), tr)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListTripRecords GET /api/trip-records?page&limit&groupId&month&q
func (h *TripHandler) ListTripRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	page, limit, err := validate.PageLimit(q.Get("page"), q.Get("limit"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.Month(q.Get("month")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	req := model.ListTripRecordsRequest{
		UserID: user.UserID,
		Query:  q.Get("q"),
		Month:  q.Get("month"),
		Page:   page,
		Limit:  limit,
	}
	if gid := q.Get("groupId"); gid != "" {
		id, err := primitive.ObjectIDFromHex(gid)
		if err != nil {
			respond.WriteBadRequest(w, "groupId must be a valid id")
			return
		}
		req.GroupID = &id
	}

	out, err := h.svc.List(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// GetTripRecord GET /api/trip-records/{id}
func (h *TripHandler) GetTripRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.svc.Get(r.Context(), user.UserID, id)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateTripRecord PUT /api/trip-records/{id}
func (h *TripHandler) UpdateTripRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Title     *string         `json:"title,omitempty"`
		Content   *string         `json:"content,omitempty"`
		Date      *time.Time      `json:"date,omitempty"`
		PhotoKeys *[]string       `json:"photoKeys,omitempty"`
		GroupID   json.RawMessage `json:"groupId,omitempty"`
		Latitude  *float64        `json:"latitude,omitempty"`
		Longitude *float64        `json:"longitude,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		respond.WriteBadRequest(w, "latitude and longitude must be supplied together")
		return
	}
	gref, err := groupRef(req.GroupID)
	if err != nil {
		respond.WriteBadRequest(w, "groupId must be a valid id or null")
		return
	}

	upd := model.TripRecordUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Date:      req.Date,
		PhotoKeys: req.PhotoKeys,
		GroupID:   gref,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	out, err := h.svc.Update(r.Context(), user.UserID, id, upd)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteTripRecord DELETE /api/trip-records/{id}
func (h *TripHandler) DeleteTripRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), user.UserID, id); err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
