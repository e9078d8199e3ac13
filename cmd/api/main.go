package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/auth"
	"foodgram/internal/modules/cartfeed"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/modules/membership"
	"foodgram/internal/modules/recipe"
	"foodgram/internal/modules/shoppinglist"
	"foodgram/internal/modules/subscription"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/storage"
	"foodgram/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrate failed: %v", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("REDIS_URL is empty: rate limiting and logout revocation disabled")
	}

	var images storage.ImageStore
	if cfg.UseS3() {
		s3, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		images = s3
	} else {
		images = storage.NewLocal(cfg.MediaDir, cfg.MediaURL)
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	shoppingRepo := repository.NewShoppingListRepository(db)
	blocklist := repository.NewTokenBlocklist(rdb)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	authn := middleware.NewAuthenticator(tokens, blocklist)

	hub := cartfeed.NewHub()
	defer hub.Close()

	// services and handlers
	authHandler := auth.NewHandler(auth.NewService(userRepo, followRepo, tokens, blocklist), cfg.PageSize)
	catalogHandler := catalog.NewHandler(catalog.NewService(tagRepo, ingredientRepo))
	recipeHandler := recipe.NewHandler(
		recipe.NewService(recipeRepo, ingredientRepo, tagRepo, membershipRepo, followRepo, images),
		cfg.PageSize,
	)
	membershipHandler := membership.NewHandler(membership.NewService(membershipRepo, recipeRepo, hub))
	shoppingHandler := shoppinglist.NewHandler(shoppinglist.NewService(shoppingRepo), userRepo, cfg.ShoppingListFilename)
	subscriptionHandler := subscription.NewHandler(subscription.NewService(followRepo, userRepo, recipeRepo), cfg.PageSize)
	cartfeedHandler := cartfeed.NewHandler(hub, cfg.CORSAllowedOrigins)

	owner := middleware.RecipeOwnership(recipeRepo)
	writeLimit := middleware.NewRecipeWriteRateLimiter(rdb, cfg.RateLimitRecipes, cfg.RateLimitWindow).Middleware()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	if !cfg.UseS3() {
		r.Static(cfg.MediaURL, cfg.MediaDir)
	}

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// public: anonymous allowed, viewer flags filled when a token is sent
		public := api.Group("")
		public.Use(authn.Optional())
		{
			authHandler.RegisterPublicRoutes(public)
			catalogHandler.RegisterPublicRoutes(public)
			recipeHandler.RegisterPublicRoutes(public)
		}

		protected := api.Group("")
		protected.Use(authn.Required())
		{
			authHandler.RegisterProtectedRoutes(protected)
			recipeHandler.RegisterProtectedRoutes(protected, owner, writeLimit)
			membershipHandler.RegisterProtectedRoutes(protected)
			shoppingHandler.RegisterProtectedRoutes(protected)
			subscriptionHandler.RegisterProtectedRoutes(protected)
			cartfeedHandler.RegisterProtectedRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("foodgram api listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		os.Exit(1)
	}
}
