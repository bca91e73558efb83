package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	taskboard "github.com/goliatone/go-taskboard"
	"github.com/goliatone/go-taskboard/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	repo   taskboard.RepositoryManager
	auth   taskboard.Authenticator
	guard  *taskboard.RouteGuard
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("taskboard"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	RegisterRoutes(app)

	app.srv.Serve(app.Config().GetServer().GetAddr())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*taskboard.User)(nil))
	persistence.RegisterModel((*taskboard.Task)(nil))

	cfg := app.Config().GetPersistence()
	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(taskboard.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	app.bunDB = client.DB()
	app.repo = taskboard.NewRepositoryManager(client.DB())

	return app.repo.Validate()
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       app.Config().GetApp().GetName(),
			UnescapePath:  true,
			StrictRouting: false,
			BodyLimit:     1 << 20,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	srv.Router().Static("/", "./public", router.Static{})

	app.srv = srv
	return nil
}

type userTrackerAdapter struct {
	users taskboard.Users
}

func (a userTrackerAdapter) GetByIdentifier(ctx context.Context, identifier string) (*taskboard.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userTrackerAdapter) TrackAttemptedLogin(ctx context.Context, user *taskboard.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func WithAuth(ctx context.Context, app *App) error {
	cfg := app.Config().GetAuth()

	tokens := taskboard.NewTokenService(cfg, app.GetLogger("auth:tokens"))

	provider := taskboard.NewUserProvider(userTrackerAdapter{users: app.repo.Users()}).
		WithLogger(app.GetLogger("auth:prv"))

	auther := taskboard.NewAuthenticator(app.repo.Users(), provider, tokens).
		WithLogger(app.GetLogger("auth:authn"))

	app.auth = auther
	app.guard = taskboard.NewRouteGuard(tokens, app.repo.Users(), cfg).
		WithLogger(app.GetLogger("auth:guard"))

	return nil
}

func RegisterRoutes(app *App) {
	cfg := app.Config().GetAuth()

	api := app.srv.Router().Group("/api/v1")
	protected := app.guard.ProtectedRoute()

	cookies := taskboard.NewCookieWriter(cfg)

	taskboard.RegisterAuthRoutes(api, protected,
		taskboard.WithAuthRepo(app.repo),
		taskboard.WithAuthenticator(app.auth),
		taskboard.WithCookieWriter(cookies),
		taskboard.WithAuthContextKey(cfg.GetContextKey()),
		taskboard.WithAuthLogger(app.GetLogger("users:ctrl")),
	)

	manager := taskboard.NewTaskManager(app.repo).
		WithLogger(app.GetLogger("tasks:mgr"))

	taskboard.RegisterTaskRoutes(api, protected,
		taskboard.WithTaskManager(manager),
		taskboard.WithTaskContextKey(cfg.GetContextKey()),
		taskboard.WithTaskLogger(app.GetLogger("tasks:ctrl")),
	)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
