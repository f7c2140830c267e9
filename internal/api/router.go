package api

import (
	"context"

	"github.com/gorilla/mux"

	"github.com/yoyowasi/ar-memo-backend/internal/api/recovery"
	"github.com/yoyowasi/ar-memo-backend/internal/auth"
	"github.com/yoyowasi/ar-memo-backend/internal/blob"
	"github.com/yoyowasi/ar-memo-backend/internal/config"
	"github.com/yoyowasi/ar-memo-backend/internal/services"
	"github.com/yoyowasi/ar-memo-backend/internal/store"
)

// NewRouter wires all routes. Everything under /api requires a bearer token;
// /health is open.
func NewRouter(cfg *config.Config, st store.Store, signer blob.Signer, authorizer auth.Authorizer, ping func(context.Context) error) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	memorySvc := services.NewMemoryService(st, signer)
	groupSvc := services.NewGroupService(st, signer)
	tripSvc := services.NewTripService(st, signer)
	uploadSvc := services.NewUploadService(signer)

	memoryHandler := NewMemoryHandler(memorySvc, cfg)
	groupHandler := NewGroupHandler(groupSvc, cfg)
	tripHandler := NewTripHandler(tripSvc, cfg)
	uploadHandler := NewUploadHandler(uploadSvc, cfg)
	healthHandler := NewHealthHandler(ping)

	// Health endpoint (unauthenticated)
	router.HandleFunc("/health", healthHandler.CheckHealth).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware(authorizer))

	// Memory endpoints. Fixed sub-paths are registered before the ObjectID
	// route; the hex regex keeps them from colliding.
	api.HandleFunc("/memories/near/search", memoryHandler.FindNear).Methods("GET")
	api.HandleFunc("/memories/in/view", memoryHandler.FindInView).Methods("GET")
	api.HandleFunc("/memories/stats/summary", memoryHandler.Stats).Methods("GET")
	api.HandleFunc("/memories/presigned-url", uploadHandler.PresignPhoto).Methods("POST")
	api.HandleFunc("/memories", memoryHandler.CreateMemory).Methods("POST")
	api.HandleFunc("/memories", memoryHandler.ListMemories).Methods("GET")
	api.HandleFunc("/memories/{id:[0-9a-fA-F]{24}}", memoryHandler.GetMemory).Methods("GET")
	api.HandleFunc("/memories/{id:[0-9a-fA-F]{24}}", memoryHandler.UpdateMemory).Methods("PUT")
	api.HandleFunc("/memories/{id:[0-9a-fA-F]{24}}", memoryHandler.DeleteMemory).Methods("DELETE")

	// Group endpoints
	api.HandleFunc("/groups", groupHandler.CreateGroup).Methods("POST")
	api.HandleFunc("/groups", groupHandler.ListGroups).Methods("GET")
	api.HandleFunc("/groups/{id:[0-9a-fA-F]{24}}", groupHandler.GetGroup).Methods("GET")
	api.HandleFunc("/groups/{id:[0-9a-fA-F]{24}}", groupHandler.UpdateGroup).Methods("PUT")
	api.HandleFunc("/groups/{id:[0-9a-fA-F]{24}}", groupHandler.DeleteGroup).Methods("DELETE")
	api.HandleFunc("/groups/{id:[0-9a-fA-F]{24}}/members", groupHandler.AddMember).Methods("POST")
	api.HandleFunc("/groups/{id:[0-9a-fA-F]{24}}/members/{userId}", groupHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/groups/{id:[0-9a-fA-F]{24}}/memories", groupHandler.ListGroupMemories).Methods("GET")

	// Trip record endpoints
	api.HandleFunc("/trip-records", tripHandler.CreateTripRecord).Methods("POST")
	api.HandleFunc("/trip-records", tripHandler.ListTripRecords).Methods("GET")
	api.HandleFunc("/trip-records/{id:[0-9a-fA-F]{24}}", tripHandler.GetTripRecord).Methods("GET")
	api.HandleFunc("/trip-records/{id:[0-9a-fA-F]{24}}", tripHandler.UpdateTripRecord).Methods("PUT")
	api.HandleFunc("/trip-records/{id:[0-9a-fA-F]{24}}", tripHandler.DeleteTripRecord).Methods("DELETE")

	// Upload endpoint
	api.HandleFunc("/uploads/photo", uploadHandler.UploadPhoto).Methods("POST")

	return router
}
