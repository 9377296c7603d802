package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Load 加载 .env 和环境变量，设置默认值
func Load() {
	// .env 不存在时直接用环境变量
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8082")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_USER", "root")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "devconnect")
	viper.SetDefault("JWT_SECRET", "devconnect-secret")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("WS_PING_INTERVAL", 10*time.Second)
	viper.SetDefault("WS_PONG_TIMEOUT", 15*time.Second)
}

// InitLogger 按配置初始化全局日志
func InitLogger() {
	level, err := logrus.ParseLevel(viper.GetString("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if viper.GetString("LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}

func ServerPort() string {
	return viper.GetString("SERVER_PORT")
}

func JWTSecret() string {
	return viper.GetString("JWT_SECRET")
}

func PingInterval() time.Duration {
	return viper.GetDuration("WS_PING_INTERVAL")
}

func PongTimeout() time.Duration {
	return viper.GetDuration("WS_PONG_TIMEOUT")
}
