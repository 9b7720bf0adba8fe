package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"spending/config"
	"spending/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// 注册 database/sql 驱动名 "sqlite"，gorm 方言通过 DriverName 使用它
	// gorm.io/driver/sqlite 自身仍会链接 mattn/go-sqlite3（需 cgo）
	_ "modernc.org/sqlite"
)

var DB *gorm.DB

// Init 初始化全局数据库连接
func Init(cfg *config.Config) error {
	db, err := Open(&cfg.Database)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open 按配置打开数据库、执行迁移并写入默认目录数据
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	driver := normalizeDriver(cfg.Driver)
	dialector, err := newDialector(driver, cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// SQLite 单文件，连接数过多只会增加锁竞争
		sqlDB.SetMaxOpenConns(4)
		if err := RunMigrations(sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		if err := db.AutoMigrate(
			&models.ExpenseType{},
			&models.ExpenseName{},
			&models.PaymentMethod{},
			&models.Expense{},
			&models.CreditCardPayment{},
		); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("自动迁移失败: %w", err)
		}
	}

	if cfg.SeedDefaults {
		if err := SeedDefaults(db); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	slog.Info("数据库初始化成功", "driver", driver)
	return db, nil
}

// normalizeDriver 未配置驱动时使用 sqlite
func normalizeDriver(driver string) string {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		return "sqlite"
	}
	return driver
}

func newDialector(driver string, cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
		return &sqlite.Dialector{DriverName: "sqlite", DSN: SQLiteDSN(cfg.Path)}, nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Username,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.Username,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", driver)
	}
}

// SQLiteDSN 生成带 pragma 的 SQLite 连接串
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// SeedDefaults 初始化默认目录数据（仅当对应表为空时），可在事务内调用
func SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ExpenseType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计消费类型失败: %w", err)
	}
	if count == 0 {
		var rows []models.ExpenseType
		for _, name := range models.DefaultExpenseTypes() {
			rows = append(rows, models.ExpenseType{Name: name})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("写入默认消费类型失败: %w", err)
		}
	}

	if err := db.Model(&models.ExpenseName{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计消费项失败: %w", err)
	}
	if count == 0 {
		var rows []models.ExpenseName
		for _, name := range models.DefaultExpenseNames() {
			rows = append(rows, models.ExpenseName{Name: name})
		}
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("写入默认消费项失败: %w", err)
		}
	}

	if err := db.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计支付方式失败: %w", err)
	}
	if count == 0 {
		rows := models.DefaultPaymentMethods()
		if err := db.Create(&rows).Error; err != nil {
			return fmt.Errorf("写入默认支付方式失败: %w", err)
		}
	}
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

// Close 关闭全局连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	DB = nil
	return sqlDB.Close()
}
