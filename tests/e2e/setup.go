//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-booking/cmd/bootstrap"
	"restaurant-booking/cmd/bootstrap/components"
	"restaurant-booking/internal/infra/db"
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/config"
	"restaurant-booking/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	postgresImage    = "postgres:17"
	postgresUser     = "booking"
	postgresPassword = "booking"
	postgresPort     = nat.Port("5432/tcp")
	restaurantZone   = "Europe/Paris"
)

var (
	postgresOnce      sync.Once
	postgresContainer testcontainers.Container
	postgresStartErr  error
)

type endpoint struct {
	Host string
	Port nat.Port
}

func (e endpoint) dsn(dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, e.Host, e.Port.Port(), dbName)
}

// Env is what one e2e suite works against: a private database, a router wired
// like cmd/main.go, and the clock that router reads "now" from.
type Env struct {
	DB     *pgxpool.Pool
	Router *gin.Engine
	Config config.Config
	Clock  *clock.MockClock
}

// ------------------------------------------------------------
// 各テストスイート用に環境を構築
// ------------------------------------------------------------
func newEnv(t *testing.T) Env {
	gin.SetMode(gin.TestMode)

	pg := sharedPostgres(t)
	dbConfig := createDatabase(t, pg)

	pool, cleanup, err := db.Connect(dbConfig)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(cleanup)

	require.NoError(t, applyMigrations(t.Context(), pool), "データベースマイグレーションに失敗")
	require.NoError(t, dbtest.SeedReferenceData(pool), "参照データの投入に失敗")

	cfg := config.NewTestConfig()
	cfg.DB = dbConfig

	env := Env{DB: pool, Config: cfg, Clock: clock.NewMockClock(restaurantNow())}
	env.Router = startApp(t, env)

	slog.Info("E2E環境の準備が完了しました",
		"postgres_host", pg.Host, "postgres_port", pg.Port.Port(), "database", dbConfig.DBName)
	return env
}

func restaurantNow() time.Time {
	loc, err := time.LoadLocation(restaurantZone)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Truncate(time.Second)
}

// ------------------------------------------------------------
// PostgreSQLコンテナはプロセス内で一度だけ起動し、全スイートで共有
// ------------------------------------------------------------
func sharedPostgres(t *testing.T) endpoint {
	postgresOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		postgresContainer, postgresStartErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        postgresImage,
				ExposedPorts: []string{string(postgresPort)},
				Env: map[string]string{
					"POSTGRES_USER":     postgresUser,
					"POSTGRES_PASSWORD": postgresPassword,
					"POSTGRES_DB":       "postgres",
					"TZ":                restaurantZone,
				},
				// データはRAM上に置き、耐久性を犠牲にして速度を優先
				Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
				Cmd: []string{
					"postgres",
					"-c", "fsync=off",
					"-c", "full_page_writes=off",
					"-c", "synchronous_commit=off",
					"-c", "max_connections=200",
					"-c", "timezone=" + restaurantZone,
				},
				WaitingFor: wait.ForSQL(postgresPort, "pgx", func(host string, port nat.Port) string {
					return endpoint{Host: host, Port: port}.dsn("postgres")
				}).WithStartupTimeout(90 * time.Second),
				Labels: map[string]string{"purpose": "restaurant-booking-e2e"},
			},
			Started: true,
		})
	})
	require.NoError(t, postgresStartErr, "PostgreSQLコンテナの起動に失敗")

	ctx := context.Background()
	port, err := postgresContainer.MappedPort(ctx, postgresPort)
	require.NoError(t, err, "PostgreSQLコンテナのポート取得に失敗")
	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err, "PostgreSQLコンテナのホスト取得に失敗")

	return endpoint{Host: host, Port: port}
}

// ------------------------------------------------------------
// スイートごとに専用データベースを作成
// ------------------------------------------------------------
func createDatabase(t *testing.T, pg endpoint) config.DBConfig {
	dbName := "booking_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, pg.dsn("postgres"))
	require.NoError(t, err, "管理者接続に失敗")
	defer admin.Close()

	// 並列スイートがテンプレートDBを同時に使うと失敗するため再試行する
	backoff := 250 * time.Millisecond
	for attempt := 1; ; attempt++ {
		_, err = admin.Exec(ctx, "CREATE DATABASE "+dbName)
		if err == nil || attempt == 5 {
			break
		}
		slog.Warn("データベース作成を再試行中", "attempt", attempt, "error", err.Error(), "retry_wait", backoff)
		time.Sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	require.NoError(t, err, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		admin, err := pgxpool.New(ctx, pg.dsn("postgres"))
		if err != nil {
			slog.Warn("クリーンアップ用のデータベース接続に失敗しました", "database", dbName, "error", err.Error())
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+dbName+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", dbName, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     pg.Host,
		Port:     pg.Port.Port(),
		User:     postgresUser,
		Password: postgresPassword,
		DBName:   dbName,
		SSLMode:  "disable",
		TimeZone: restaurantZone,
		MaxConns: 20,
	}
}

// applyMigrations runs every migrations/*.sql in name order, the order atlas applies them in.
func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations found under %s", root)
	}
	sort.Strings(files)

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filepath.Base(file), err)
		}
		slog.Debug("マイグレーション実行完了", "file", filepath.Base(file))
	}
	return nil
}

// repoRoot walks up from the test package directory to the directory holding go.mod.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

// ------------------------------------------------------------
// 本番と同じモジュール構成でアプリを起動（DB・設定・時計のみ差し替え）
// ------------------------------------------------------------
func startApp(t *testing.T, env Env) *gin.Engine {
	var router *gin.Engine

	app := fx.New(
		fx.Supply(env.DB, env.Config),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.JWTModule,
		components.RepositoryModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Decorate(func(clock.Clock) clock.Clock { return env.Clock }),
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})

	require.NotNil(t, router, "Routerのセットアップに失敗")
	return router
}

// ------------------------------------------------------------
// E2Eテストスイートで共通のセットアップ
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Env
}

func (s *SharedSuite) SetupSuite() {
	s.Env = newEnv(s.T())
}

// SetupSubTest gives every subtest a clean database and a clock reset to the present.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
	s.Clock.Set(restaurantNow())
}
