package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blues/tlindexer/internal/chain"
	"github.com/blues/tlindexer/internal/config"
	"github.com/blues/tlindexer/internal/content"
	"github.com/blues/tlindexer/internal/database"
	"github.com/blues/tlindexer/internal/handler"
	"github.com/blues/tlindexer/internal/logger"
	"github.com/blues/tlindexer/internal/logic"
	"github.com/blues/tlindexer/internal/monitor"
	"github.com/blues/tlindexer/internal/router"
	"github.com/blues/tlindexer/internal/store"
	"github.com/blues/tlindexer/internal/task"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "tlindexer",
		Short: "TalentLayer event indexer",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径")
	cmd.PersistentFlags().String("port", viper.GetString("server.port"), "HTTP 监听端口")
	cmd.PersistentFlags().String("log-level", viper.GetString("log.level"), "日志级别 (debug, info, warn, error)")
	cmd.PersistentFlags().String("rpc-url", "", "链 RPC 节点地址")

	bindFlag(cmd, "server.port", "port")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "chain.rpc_url", "rpc-url")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	// 加载配置
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	log, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetDefaultLogger(log)
	defer log.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化链客户端和合约
	chainManager, err := chain.NewManager(signalCtx, cfg.Chain)
	if err != nil {
		return fmt.Errorf("failed to initialize chain manager: %w", err)
	}
	defer chainManager.Close()

	eventMonitor := monitor.NewEventMonitor(chainManager, db, cfg.Chain, log.Named("monitor"))

	// 链下内容抓取
	fetcher := content.NewGatewayFetcher(cfg.Content.Gateway, cfg.Content.TimeoutDuration(), cfg.Content.RateLimit)
	materializer := content.NewMaterializer(store.NewGormStore(db), fetcher, cfg.Content.MaxAttempts, log.Named("content"))
	fetchJob, err := task.NewContentFetchJob(signalCtx, materializer, cfg.Content, cfg.Task)
	if err != nil {
		return err
	}
	defer fetchJob.Release()

	taskManager, err := task.NewManager()
	if err != nil {
		return err
	}
	if err := taskManager.Register(fetchJob); err != nil {
		return err
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	indexerHandler := handler.NewIndexerHandler(eventMonitor, chainManager, materializer.Queue(), logic.NewEventLogic(db), log)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Setup(indexerHandler, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(signalCtx)

	if err := eventMonitor.Start(gctx); err != nil {
		return fmt.Errorf("failed to start event monitor: %w", err)
	}
	taskManager.Start()

	g.Go(func() error {
		log.Info("Server starting on port %s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)

		eventMonitor.Stop()
		taskManager.Stop()
		return err
	})

	return g.Wait()
}
