package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yoyowasi/ar-memo-backend/internal/api/respond"
	"github.com/yoyowasi/ar-memo-backend/internal/api/validate"
	"github.com/yoyowasi/ar-memo-backend/internal/config"
	"github.com/yoyowasi/ar-memo-backend/internal/model"
	"github.com/yoyowasi/ar-memo-backend/internal/services"
)

type GroupHandler struct {
	svc *services.GroupService
	cfg *config.Config
}

func NewGroupHandler(svc *services.GroupService, cfg *config.Config) *GroupHandler {
	return &GroupHandler{svc: svc, cfg: cfg}
}

// CreateGroup POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Name    string   `json:"name"`
		Color   string   `json:"color,omitempty"`
		Members []string `json:"members,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateGroup(req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.Create(r.Context(), &model.Group{
		Name:    req.Name,
		Color:   req.Color,
		OwnerID: user.UserID,
		Members: req.Members,
	})
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListGroups GET /api/groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	out, err := h.svc.List(r.Context(), user.UserID)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	if out == nil {
		out = []*model.Group{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"groups": out, "count": len(out)})
}

// GetGroup GET /api/groups/{id}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
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

// UpdateGroup PUT /api/groups/{id}
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.GroupUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Name != nil {
		if err := validate.CreateGroup(*req.Name); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}

	out, err := h.svc.Update(r.Context(), user.UserID, id, req)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteGroup DELETE /api/groups/{id}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
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

// AddMember POST /api/groups/{id}/members
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.UserID == "" {
		respond.WriteBadRequest(w, "userId is required")
		return
	}

	out, err := h.svc.AddMember(r.Context(), user.UserID, id, req.UserID)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// RemoveMember DELETE /api/groups/{id}/members/{userId}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	member := mux.Vars(r)["userId"]
	if member == "" {
		respond.WriteBadRequest(w, "userId is required")
		return
	}

	out, err := h.svc.RemoveMember(r.Context(), user.UserID, id, member)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListGroupMemories GET /api/groups/{id}/memories?page&limit
func (h *GroupHandler) ListGroupMemories(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, limit, err := validate.PageLimit(q.Get("page"), q.Get("limit"))
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.ListMemories(r.Context(), user.UserID, id, page, limit)
	if err != nil {
		writeServiceError(w, r, err, !h.cfg.IsProduction())
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
