package service

import (
	"context"
	"path/filepath"
	"testing"

	"spending/config"
	"spending/database"
	"spending/events"
	"spending/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 在临时目录创建已迁移的 SQLite 数据库，不写入默认数据
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// setupMockDB sqlmock + mysql 方言，用于存储失败路径
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gormDB, mock
}

type recordingPublisher struct {
	types []string
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.types = append(r.types, e.Type)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func newTestServices(t *testing.T) (*Services, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return New(setupTestDB(t), &config.Config{}, pub), pub
}

func mustPaymentMethod(t *testing.T, s *Services, name string, kind models.PaymentMethodKind) *models.PaymentMethod {
	t.Helper()
	pm, err := s.Catalog.CreatePaymentMethod(context.Background(), PaymentMethodInput{Name: name, Kind: kind})
	require.NoError(t, err)
	return pm
}

func mustExpense(t *testing.T, s *Services, date, typ, name, method, amount string) *models.Expense {
	t.Helper()
	e, err := s.Ledger.CreateExpense(context.Background(), ExpenseInput{
		Date:          date,
		ExpenseType:   typ,
		ExpenseName:   name,
		PaymentMethod: method,
		Amount:        decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return e
}

func mustCardPayment(t *testing.T, s *Services, date, card, amount string) *models.CreditCardPayment {
	t.Helper()
	p, err := s.Ledger.CreateCardPayment(context.Background(), CardPaymentInput{
		Date:           date,
		CreditCardName: card,
		Amount:         decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
