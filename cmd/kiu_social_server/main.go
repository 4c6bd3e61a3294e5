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

	"kiu_social_server/internal/config"
	"kiu_social_server/internal/dao/postgres"
	"kiu_social_server/internal/dao/redis"
	"kiu_social_server/internal/handler"
	"kiu_social_server/internal/http_server"
	"kiu_social_server/internal/infrastructure/logger"
	"kiu_social_server/internal/service"
	"kiu_social_server/internal/service/chat"
	"kiu_social_server/pkg/util/jwt"
	"kiu_social_server/pkg/util/snowflake"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	conf := config.GetConfig()

	mode := gin.ReleaseMode
	if os.Getenv("GIN_MODE") == gin.DebugMode {
		mode = gin.DebugMode
	}
	if err := logger.Init(&conf.LogConfig, mode); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zap.L().Sync() }()

	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(conf.SnowflakeConfig.MachineID)

	repos, err := postgres.Init()
	if err != nil {
		zap.L().Fatal("init postgres failed", zap.Error(err))
	}
	if err := redis.Init(); err != nil {
		zap.L().Fatal("init redis failed", zap.Error(err))
	}
	defer redis.Close()
	redis.InitCacheWorker(4, 256)
	defer redis.StopCacheWorker()

	if err := handler.InitTrans(); err != nil {
		zap.L().Fatal("init validator failed", zap.Error(err))
	}

	services := service.NewServices(repos)
	chatServer := chat.NewChatServer(repos, services.Message)
	chatServer.Start()
	defer chatServer.Stop()

	handlers := handler.NewHandlers(services, chatServer)
	engine := http_server.NewEngine(handlers, mode)

	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	go func() {
		zap.L().Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
}
