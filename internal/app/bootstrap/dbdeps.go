// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratasite/internal/app/system/contentcache"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the long-lived backend clients created in ConnectDB and
// shared with every later lifecycle hook.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when no redis_url is configured.
	Redis *redis.Client
	// ContentCache is never nil; it is a no-op without Redis.
	ContentCache contentcache.Cache

	Mailer *mailer.Mailer
}
