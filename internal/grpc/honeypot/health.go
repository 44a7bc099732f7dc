package honeypot

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"honeytrap-lab/internal/infrastructure/cache"
	"honeytrap-lab/internal/infrastructure/database"
)

const serviceName = "honeytrap.v1.HoneypotService"

// RegisterHealthServer registers the gRPC health check service and
// keeps its status in sync with the optional backing stores
func RegisterHealthServer(ctx context.Context, grpcServer *grpc.Server, db *database.PostgresDB, c *cache.RedisCache) {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := grpc_health_v1.HealthCheckResponse_SERVING
				if !backendsHealthy(ctx, db, c) {
					status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
				}
				healthServer.SetServingStatus("", status)
				healthServer.SetServingStatus(serviceName, status)
			}
		}
	}()

	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
}

func backendsHealthy(ctx context.Context, db *database.PostgresDB, c *cache.RedisCache) bool {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if db != nil {
		if err := db.Ping(checkCtx); err != nil {
			return false
		}
	}
	if c != nil {
		if err := c.Client().Ping(checkCtx).Err(); err != nil {
			return false
		}
	}
	return true
}
