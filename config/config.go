package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	TokenTTLHours int // JWT 有效期（小时）

	MaxNoteLength int // 情书内容最大长度
	StatsCacheTTL int // 首页统计缓存时间（秒）
}

func Load() *Config {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	maxNoteLength, _ := strconv.Atoi(getEnv("MAX_NOTE_LENGTH", "2000"))
	statsCacheTTL, _ := strconv.Atoi(getEnv("STATS_CACHE_TTL_SECONDS", "60"))

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTLHours: tokenTTL,
		MaxNoteLength: maxNoteLength,
		StatsCacheTTL: statsCacheTTL,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
