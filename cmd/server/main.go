package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/config"
	"github.com/maelc/combat-notation/internal/database"
	"github.com/maelc/combat-notation/internal/handler"
	"github.com/maelc/combat-notation/internal/middleware"
	"github.com/maelc/combat-notation/internal/queue"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/router"
	"github.com/maelc/combat-notation/internal/service"
	"github.com/maelc/combat-notation/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	combats := repository.NewCombatRepo(db)
	shares := repository.NewShareRepo(db)
	lexicons := repository.NewLexiconRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	audits := repository.NewAuditRepo(db)

	if err := bootstrapSuperadmin(cfg, users); err != nil {
		log.Fatalf("superadmin bootstrap: %v", err)
	}

	audit := service.NewAuditRecorder(cfg.AMQPURL, audits)
	go queue.StartAuditConsumer(cfg.AMQPURL, audits)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.AllowedOrigins}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := middleware.SessionAuth(cfg.TokenSecret, sessions, users)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	router.RegisterPublic(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, sessions, audit), auth)
	router.RegisterCombats(e,
		handler.NewCombatHandler(combats, shares, users, audit),
		handler.NewStateHandler(combats, audit),
		auth)
	router.RegisterLexicon(e, handler.NewLexiconHandler(lexicons, favorites, audit), auth, cache)
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, users, sessions, audits, audit), auth)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// bootstrapSuperadmin creates the first account on an empty instance so the
// admin surface is reachable without manual SQL. It does nothing once any
// user exists or when the bootstrap credentials are not configured.
func bootstrapSuperadmin(cfg config.Config, users *repository.UserRepo) error {
	if cfg.SuperadminEmail == "" || cfg.SuperadminPass == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := utils.HashPassword(cfg.SuperadminPass, cfg.BcryptCost)
	if err != nil {
		return err
	}
	id, err := users.Create(ctx, cfg.SuperadminEmail, hash, authz.RoleSuperadmin)
	if err != nil {
		return err
	}
	log.Printf("created bootstrap superadmin (id=%d)", id)
	return nil
}
