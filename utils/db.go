package utils

import (
	"context"
	"log"
	"time"

	"kagai/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// QuietLogger 自定义 GORM 日志器：只打印慢查询和真实错误
type QuietLogger struct {
	SlowThreshold time.Duration // 慢查询阈值
}

func (l *QuietLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *QuietLogger) Info(ctx context.Context, msg string, data ...interface{}) {}

func (l *QuietLogger) Warn(ctx context.Context, msg string, data ...interface{}) {}

func (l *QuietLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	// 忽略 "record not found"，业务层自行处理
	if msg != "record not found" {
		log.Printf("[GORM Error] "+msg, data...)
	}
}

func (l *QuietLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && err != gorm.ErrRecordNotFound && err != gorm.ErrDuplicatedKey {
		log.Printf("[GORM Error] %s [%v] [rows:%d] %s", err, elapsed, rows, sql)
	} else if elapsed >= l.SlowThreshold {
		log.Printf("[SLOW SQL] [%v] [rows:%d] %s", elapsed, rows, sql)
	}
}

// InitDB 初始化数据库连接并迁移表结构
func InitDB(databaseURL string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: &QuietLogger{
			SlowThreshold: 100 * time.Millisecond,
		},
		// 把驱动层的唯一约束冲突翻译成 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 连接池配置
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)

	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("✅ Database connected")
	return nil
}

// Migrate 迁移全部业务表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.LoveNote{},
		&model.Connection{},
		&model.Favorite{},
	)
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

// CloseDB 关闭数据库连接
func CloseDB() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
