package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/ai"
	"github.com/xxxsen/hylur/internal/config"
	"github.com/xxxsen/hylur/internal/db"
	"github.com/xxxsen/hylur/internal/filestore"
	"github.com/xxxsen/hylur/internal/gencache"
	"github.com/xxxsen/hylur/internal/handler"
	"github.com/xxxsen/hylur/internal/job"
	"github.com/xxxsen/hylur/internal/knowledge"
	"github.com/xxxsen/hylur/internal/middleware"
	"github.com/xxxsen/hylur/internal/repo"
	"github.com/xxxsen/hylur/internal/schedule"
	"github.com/xxxsen/hylur/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "hylur",
		Short: "hylur knowledge base server",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run hylur server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()
			return runServer(cfg, conn)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			_ = conn.Close()
			logutil.GetLogger(context.Background()).Info("migrations applied")
			return nil
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "purge expired deleted documents once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()
			documents, err := newDocumentService(cfg, conn)
			if err != nil {
				return err
			}
			return purgeJob(cfg, documents).Run(cmd.Context())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, purgeCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

// bootstrap loads config, initialises logging and opens a migrated database.
func bootstrap(configPath string) (*config.Config, *sql.DB, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return cfg, conn, nil
}

func newDocumentService(cfg *config.Config, conn *sql.DB) (*service.DocumentService, error) {
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return nil, fmt.Errorf("init file store: %w", err)
	}
	return service.NewDocumentService(repo.NewDocumentRepo(conn), store, cfg.MaxUploadBytes), nil
}

func purgeJob(cfg *config.Config, documents *service.DocumentService) *job.DocumentPurgeJob {
	return job.NewDocumentPurgeJob(documents, time.Duration(cfg.PurgeAfterHours)*time.Hour)
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
		zap.Int("ai_providers", len(cfg.AI.Providers)),
	)

	userRepo := repo.NewUserRepo(conn)
	docRepo := repo.NewDocumentRepo(conn)
	tableRepo := repo.NewDataTableRepo(conn)
	linkRepo := repo.NewWebLinkRepo(conn)
	knowledgeRepo := repo.NewKnowledgeRepo(docRepo, tableRepo, linkRepo)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	generator, err := ai.BuildGenerator(cfg.AI)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	if generator == nil {
		logutil.GetLogger(context.Background()).Warn("no ai provider configured, chat is unavailable")
	} else {
		generator = gencache.WrapLRUToGenerator(generator, cfg.AI.CacheSize, time.Duration(cfg.AI.CacheTTLMinutes)*time.Minute)
	}

	jwtSecret := []byte(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour*time.Duration(cfg.JWTTTLHours), cfg.Properties.EnableUserRegister)
	documentService := service.NewDocumentService(docRepo, store, cfg.MaxUploadBytes)
	tableService := service.NewDataTableService(tableRepo)
	linkService := service.NewWebLinkService(linkRepo)
	assembler := knowledge.NewAssembler(knowledgeRepo,
		knowledge.WithLimits(knowledge.ContextLimits{
			Documents: cfg.Knowledge.DocumentLimit,
			Tables:    cfg.Knowledge.TableLimit,
			Links:     cfg.Knowledge.LinkLimit,
		}),
		knowledge.WithPlatformName(cfg.Knowledge.PlatformName),
	)
	chatService := service.NewChatService(assembler, generator, time.Duration(cfg.AI.Timeout)*time.Second)

	deps := handler.RouterDeps{
		Auth:          handler.NewAuthHandler(authService),
		Documents:     handler.NewDocumentHandler(documentService, cfg.MaxUploadBytes),
		DataTables:    handler.NewDataTableHandler(tableService),
		WebLinks:      handler.NewWebLinkHandler(linkService),
		Search:        handler.NewSearchHandler(knowledge.NewSearcher(knowledgeRepo)),
		Chat:          handler.NewChatHandler(chatService),
		Dashboard:     handler.NewDashboardHandler(knowledge.NewDashboard(knowledgeRepo, knowledgeRepo)),
		JWTSecret:     jwtSecret,
		ChatRateLimit: time.Duration(cfg.ChatRateLimit) * time.Second,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(purgeJob(cfg, documentService), cfg.PurgeCron); err != nil {
		return fmt.Errorf("schedule purge job: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
