package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yoyowasi/ar-memo-backend/internal/api/respond"
	"github.com/yoyowasi/ar-memo-backend/internal/api/validate"
	"github.com/yoyowasi/ar-memo-backend/internal/auth"
	"github.com/yoyowasi/ar-memo-backend/internal/config"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/services"
)

type MemoryHandler struct {
	svc *services.MemoryService
	cfg *config.Config
}

func NewMemoryHandler(svc *services.MemoryService, cfg *config.Config) *MemoryHandler {
	return &MemoryHandler{svc: svc, cfg: cfg}
}

// currentUser returns the authenticated caller placed by the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*auth.UserInfo, bool) {
	u, ok := auth.UserFrom(r.Context())
	if !ok {
		respond.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return u, true
}

// pathID parses the {id} path variable. Malformed ids read as absent
// resources, same as a well-formed id that matches nothing.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respond.WriteNotFound(w, "not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// groupRef interprets a raw groupId body field: absent means leave alone,
// JSON null means detach, a hex string means attach.
func groupRef(raw json.RawMessage) (**primitive.ObjectID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if string(raw) == "null" {
		var none *primitive.ObjectID
		return &none, nil
	}
	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}
	ref := &id
	return &ref, nil
}

// CreateMemory POST /api/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Latitude   *float64  `json:"latitude"`
		Longitude  *float64  `json:"longitude"`
		Anchor     []float64 `json:"anchor,omitempty"`
		Text       *string   `json:"text,omitempty"`
		PhotoKey   *string   `json:"photoKey,omitempty"`
		AudioKey   *string   `json:"audioKey,omitempty"`
		ThumbKey   *string   `json:"thumbKey,omitempty"`
		Tags       []string  `json:"tags,omitempty"`
		Favorite   bool      `json:"favorite,omitempty"`
		Visibility string    `json:"visibility,omitempty"`
		GroupID    *string   `json:"groupId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateMemory(req.Latitude, req.Longitude, req.Visibility); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	m := &model.Memory{
		UserID:     user.UserID,
		Location:   model.NewGeoPoint(*req.Latitude, *req.Longitude),
		Anchor:     req.Anchor,
		Text:       req.Text,
		PhotoKey:   req.PhotoKey,
		AudioKey:   req.AudioKey,
		ThumbKey:   req.ThumbKey,
		Tags:       req.Tags,
		Favorite:   req.Favorite,
		Visibility: req.Visibility,
	}
	if req.GroupID != nil {
		gid, err := primitive.ObjectIDFromHex(*req.GroupID)
		if err != nil {
			respond.WriteBadRequest(w, "groupId must be a valid id")
			return
		}
		m.GroupID = &gid
	}

	out, err := h.svc.Create(r.Context(), m)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListMemories GET /api/memories?page&limit&q&tag&groupId&month
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
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

	req := model.ListMemoriesRequest{
		UserID: user.UserID,
		Query:  q.Get("q"),
		Tag:    q.Get("tag"),
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

// GetMemory GET /api/memories/{id}
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
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

// UpdateMemory PUT /api/memories/{id}
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Text       *string         `json:"text,omitempty"`
		PhotoKey   *string         `json:"photoKey,omitempty"`
		AudioKey   *string         `json:"audioKey,omitempty"`
		ThumbKey   *string         `json:"thumbKey,omitempty"`
		Tags       *[]string       `json:"tags,omitempty"`
		Favorite   *bool           `json:"favorite,omitempty"`
		Visibility *string         `json:"visibility,omitempty"`
		GroupID    json.RawMessage `json:"groupId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Visibility != nil {
		if err := validate.Visibility(*req.Visibility); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	gref, err := groupRef(req.GroupID)
	if err != nil {
		respond.WriteBadRequest(w, "groupId must be a valid id or null")
		return
	}

	upd := model.MemoryUpdate{
		Text:       req.Text,
		PhotoKey:   req.PhotoKey,
		AudioKey:   req.AudioKey,
		ThumbKey:   req.ThumbKey,
		Tags:       req.Tags,
		Favorite:   req.Favorite,
		Visibility: req.Visibility,
		GroupID:    gref,
	}
	out, err := h.svc.Update(r.Context(), user.UserID, id, upd)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteMemory DELETE /api/memories/{id}
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
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

// FindNear GET /api/memories/near/search?lat&lng&radius
func (h *MemoryHandler) FindNear(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	lat, err := validate.Latitude("lat", q.Get("lat"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	lng, err := validate.Longitude("lng", q.Get("lng"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	radius, err := validate.Radius(q.Get("radius"), 100)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	items, err := h.svc.FindNear(r.Context(), user.UserID, lat, lng, radius)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"count": len(items), "items": items})
}

// FindInView GET /api/memories/in/view?swLat&swLng&neLat&neLng&centerLat&centerLng&limit
func (h *MemoryHandler) FindInView(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	req := model.ViewportRequest{UserID: user.UserID}
	var err error
	if req.SWLat, err = validate.Latitude("swLat", q.Get("swLat")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.SWLng, err = validate.Longitude("swLng", q.Get("swLng")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.NELat, err = validate.Latitude("neLat", q.Get("neLat")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.NELng, err = validate.Longitude("neLng", q.Get("neLng")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.CenterLat, err = validate.Latitude("centerLat", q.Get("centerLat")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.CenterLng, err = validate.Longitude("centerLng", q.Get("centerLng")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Limit, err = validate.ViewLimit(q.Get("limit")); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	items, err := h.svc.FindInView(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"count": len(items), "items": items})
}

// Stats GET /api/memories/stats/summary?lat&lng&radius
func (h *MemoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	lat, err := validate.OptionalLatitude("lat", q.Get("lat"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	lng, err := validate.OptionalLongitude("lng", q.Get("lng"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	radius, err := validate.Radius(q.Get("radius"), 500)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.Stats(r.Context(), model.StatsRequest{
		UserID: user.UserID,
		Lat:    lat,
		Lng:    lng,
		Radius: radius,
	})
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
