package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"github.com/oksasatya/go-user-api/config"
	"github.com/oksasatya/go-user-api/pkg/pagination"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire themselves from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	bunDB       *bun.DB
	redisClient *redis.Client
	pageCodec   *pagination.Codec
)

func SetConfig(c *config.Config)       { cfg = c }
func GetConfig() *config.Config        { return cfg }
func SetLogger(l *logrus.Logger)       { logger = l }
func GetLogger() *logrus.Logger        { return logger }
func SetPGPool(p *pgxpool.Pool)        { pgPool = p }
func GetPGPool() *pgxpool.Pool         { return pgPool }
func SetBunDB(db *bun.DB)              { bunDB = db }
func GetBunDB() *bun.DB                { return bunDB }
func SetRedis(r *redis.Client)         { redisClient = r }
func GetRedis() *redis.Client          { return redisClient }
func SetPageCodec(c *pagination.Codec) { pageCodec = c }
func GetPageCodec() *pagination.Codec  { return pageCodec }
