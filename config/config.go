package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// 数据库配置
	DatabaseURL string

	// 服务器配置
	Port string

	// 比赛生命周期配置
	SweepInterval time.Duration // 状态扫描周期
	MatchDuration time.Duration // 常规比赛时长
	ExtraTime     time.Duration // 补时时长

	// 事件发布配置
	AMQPUrl      string // 为空则禁用事件发布
	AMQPExchange string

	// 运维通知配置
	OpsWebhook string // 为空则禁用通知

	// 其他配置
	Environment string
}

func Load() *Config {
	return &Config{
		// 数据库配置
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/tippspiel?sslmode=disable"),

		// 服务器配置
		Port: getEnv("PORT", "8080"),

		// 比赛生命周期配置
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 60)) * time.Second,
		MatchDuration: time.Duration(getEnvInt("MATCH_DURATION_MINUTES", 90)) * time.Minute,
		ExtraTime:     time.Duration(getEnvInt("EXTRA_TIME_MINUTES", 5)) * time.Minute,

		// 事件发布配置
		AMQPUrl:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tippspiel.events"),

		// 运维通知配置
		OpsWebhook: getEnv("OPS_WEBHOOK_URL", ""),

		// 其他配置
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result int
	fmt.Sscanf(value, "%d", &result)
	if result <= 0 {
		return defaultValue
	}
	return result
}
