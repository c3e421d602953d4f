// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Service states reported by Check.
const (
	StateOK          = "ok"
	StateUnavailable = "unavailable"
	StateDisabled    = "disabled"
)

// Handler reports the health of MongoDB and the optional content cache.
type Handler struct {
	mongoClient *mongo.Client
	redis       *redis.Client // nil when caching is off
	logger      *zap.Logger
}

// NewHandler creates a health Handler. redisClient may be nil.
func NewHandler(mongoClient *mongo.Client, redisClient *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{
		mongoClient: mongoClient,
		redis:       redisClient,
		logger:      logger,
	}
}

// Response is the body of GET /health.
type Response struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// Routes provides /health (full check), /health/ready and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountRootEndpoints adds the readiness and liveness aliases /ready, /readyz and /livez.
func MountRootEndpoints(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

// Check pings every backend. MongoDB down answers 503; a failing cache only
// marks the response degraded, since reads fall back to MongoDB.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	resp := Response{Status: "ok", Services: map[string]string{}}
	code := http.StatusOK

	if err := h.pingMongo(r.Context()); err != nil {
		h.logger.Warn("health check: mongodb ping failed", zap.Error(err))
		resp.Services["mongodb"] = StateUnavailable
		resp.Status = "down"
		code = http.StatusServiceUnavailable
	} else {
		resp.Services["mongodb"] = StateOK
	}

	switch {
	case h.redis == nil:
		resp.Services["content_cache"] = StateDisabled
	default:
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
		err := h.redis.Ping(ctx).Err()
		cancel()
		if err != nil {
			h.logger.Warn("health check: redis ping failed", zap.Error(err))
			resp.Services["content_cache"] = StateUnavailable
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		} else {
			resp.Services["content_cache"] = StateOK
		}
	}

	jsonutil.JSON(w, code, resp)
}

// Ready reports whether requests can be served, which needs MongoDB.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.pingMongo(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live answers as long as the process is serving HTTP.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}

func (h *Handler) pingMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return h.mongoClient.Ping(ctx, readpref.Primary())
}
