package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"engagement_survey/config"
	"engagement_survey/internal/api/middleware"
	"engagement_survey/internal/database"
	"engagement_survey/internal/global"
	"engagement_survey/internal/logger"
	"engagement_survey/internal/worker"

	"github.com/gofiber/fiber/v3"
)

// initLogger khởi tạo logger, cấu hình đọc từ biến môi trường LOG_*
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// resolvePath chuyển đường dẫn tương đối theo thư mục gốc dự án (thư mục chứa config/env)
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	envDir, err := config.FindEnvDir()
	if err != nil {
		return path
	}
	return filepath.Join(filepath.Dir(filepath.Dir(envDir)), path)
}

// listen khởi động server, HTTPS nếu bật TLS. Chặn cho tới khi server dừng
func listen(app *fiber.App, cfg *config.Configuration) error {
	address := ":" + cfg.Address
	log := logger.GetAppLogger()

	if !cfg.EnableTLS || cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		log.WithFields(map[string]interface{}{"address": address, "protocol": "HTTP"}).Info("Starting server with HTTP")
		return app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
	}

	certPath := resolvePath(cfg.TLSCertFile)
	keyPath := resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("error loading TLS certificate: %w", err)
	}
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("error creating listener: %w", err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	log.WithFields(map[string]interface{}{
		"address": address,
		"cert":    certPath,
		"key":     keyPath,
	}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, fiber.ListenConfig{DisableStartupMessage: true})
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := InitGlobal(ctx); err != nil {
		return err
	}
	cfg := global.MongoDB_ServerConfig
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.CloseInstance(closeCtx, global.MongoDB_Session)
	}()

	if err := InitCollections(global.MongoDB_Session, cfg); err != nil {
		return err
	}
	services, err := InitServices(cfg, initFirebase(ctx, cfg), initMailer(cfg))
	if err != nil {
		return err
	}
	defer middleware.ShutdownAuth()

	if err := InitDefaultData(ctx, services.Init, cfg); err != nil {
		return err
	}

	app, err := InitFiberApp(cfg, services.Routes(global.MongoDB_Session)...)
	if err != nil {
		return err
	}

	// Worker tính lại snapshot analytics của các khảo sát có thay đổi
	snapshotWorker := worker.NewAnalyticsSnapshotWorker(
		services.Analytics,
		time.Duration(cfg.AnalyticsWorkerIntervalSeconds)*time.Second,
		cfg.AnalyticsWorkerBatchSize,
	)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		snapshotWorker.Start(ctx)
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- listen(app, cfg)
	}()

	log := logger.GetAppLogger()
	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return err
	case <-ctx.Done():
		log.Info("Shutting down server...")
	}

	if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}
	<-workerDone
	if err := <-serverErr; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	log.Info("Server stopped")
	return nil
}

// Hàm main
func main() {
	initLogger()
	defer logger.Shutdown()

	if err := run(); err != nil {
		logger.GetAppLogger().WithError(err).Error("Server exited with error")
		logger.Shutdown()
		os.Exit(1)
	}
}
