package main

import (
	"os"
	"os/signal"
	"syscall"

	"tippspiel-service/auth"
	"tippspiel-service/config"
	"tippspiel-service/database"
	"tippspiel-service/logger"
	"tippspiel-service/services"
	"tippspiel-service/web"
)

func main() {
	logger.Println("Starting Tippspiel Service...")

	// 加载配置
	cfg := config.Load()

	// 连接数据库
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 运行数据库迁移
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	logger.Println("Database connected and migrated")

	// 创建运维通知器
	notifier := services.NewWebhookNotifier(cfg.OpsWebhook)
	if err := notifier.NotifyServiceStart(cfg.Environment); err != nil {
		logger.Errorf("Failed to send startup notification: %v", err)
	}

	// 创建事件发布器
	publisher := services.NewEventPublisher(cfg.AMQPUrl, cfg.AMQPExchange)
	if err := publisher.Connect(); err != nil {
		// 发布器不可用不阻塞启动，发布时会重试连接
		logger.Errorf("Event publisher connect failed: %v", err)
		notifier.NotifyError("EventPublisher", err.Error())
	}

	// 启动生命周期调度器
	scheduler := services.NewLifecycleScheduler(db, cfg.SweepInterval, cfg.MatchDuration, cfg.ExtraTime, publisher)
	scheduler.Start()

	logger.Printf("Lifecycle scheduler started (sweep every %v)", cfg.SweepInterval)

	// 启动Web服务器
	authenticator := auth.NewTokenStore(db)
	server := web.NewServer(cfg, db, authenticator, publisher, notifier)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatalf("Web server error: %v", err)
		}
	}()

	logger.Printf("Web server started on port %s", cfg.Port)
	logger.Println("Service is running. Press Ctrl+C to stop.")

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down service...")

	// 清理资源
	scheduler.Stop()
	server.Stop()
	publisher.Close()

	logger.Println("Service stopped")
}
