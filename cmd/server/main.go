package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"photo-gallery/internal/auth"
	"photo-gallery/internal/config"
	apphttp "photo-gallery/internal/http"
	"photo-gallery/internal/repository"
	mongorepo "photo-gallery/internal/repository/mongo"
	"photo-gallery/internal/repository/sqlite"
	"photo-gallery/internal/service"
	"photo-gallery/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if strings.TrimSpace(cfg.Auth.RegisterPassword) == "" {
		logger.Warn("auth registration password is empty, registration is disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, imageRepo, closeDB, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup database: %v", err)
	}
	defer closeDB()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := imageRepo.Init(ctx); err != nil {
		logger.Fatalf("init image repository: %v", err)
	}

	media, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	userService := service.NewUserService(userRepo, cfg.Auth.RegisterPassword)
	if cfg.Auth.AdminEmail != "" {
		admin, err := userService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			logger.Fatalf("bootstrap admin: %v", err)
		}
		logger.Infof("admin account %s ready (role %s)", admin.Email, admin.Role)
	}

	galleryService := service.NewGalleryService(imageRepo, userRepo, media, service.GalleryConfig{
		DisplayTransform: cfg.Storage.Transform,
		Logger:           logger,
	})
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20
	handler := apphttp.NewHandler(userService, galleryService, tokens, cfg.Server.AllowedOrigin, logger)
	handler.RegisterRoutes(router)

	addr := cfg.ListenAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.ImageRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DatabaseMongo:
		db, err := mongorepo.Open(ctx, cfg.Database.URI, cfg.Database.Name)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open mongo: %w", err)
		}
		logger.Infof("using mongo database %s", cfg.Database.Name)
		closeDB := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Client().Disconnect(disconnectCtx); err != nil {
				logger.Warnf("mongo disconnect: %v", err)
			}
		}
		return mongorepo.NewUserRepository(db), mongorepo.NewImageRepository(db), closeDB, nil
	default:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Warnf("sqlite close: %v", err)
			}
		}
		return sqlite.NewUserRepository(db), sqlite.NewImageRepository(db), closeDB, nil
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	layout := storage.Layout{
		PublicURL: publicURL(cfg),
		Folder:    cfg.Storage.Folder,
	}

	if cfg.Storage.Driver == config.StorageMinio {
		endpoint, secure := minioEndpoint(cfg.Storage.Endpoint, cfg.Storage.UseSSL)
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  miniocreds.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
			Secure: secure,
			Region: cfg.Storage.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		svc := storage.NewMinioService(client, cfg.Storage.Bucket, layout)
		if err := svc.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Infof("using minio bucket %s at %s", cfg.Storage.Bucket, endpoint)
		return svc, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket, layout), nil
}

// publicURL falls back to the bucket's own address when no CDN is configured.
func publicURL(cfg config.Config) string {
	if cfg.Storage.PublicURL != "" {
		return cfg.Storage.PublicURL
	}
	if cfg.Storage.Endpoint != "" {
		endpoint := cfg.Storage.Endpoint
		if !strings.Contains(endpoint, "://") {
			scheme := "http"
			if cfg.Storage.UseSSL {
				scheme = "https"
			}
			endpoint = scheme + "://" + endpoint
		}
		return strings.TrimRight(endpoint, "/") + "/" + cfg.Storage.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Storage.Bucket, cfg.Storage.Region)
}

// minioEndpoint strips any scheme from endpoint, which minio.New rejects.
func minioEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false
	}
	return endpoint, useSSL
}
