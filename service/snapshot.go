package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"spending/database"
	"spending/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SnapshotVersion 当前快照格式版本
const SnapshotVersion = 1

// Snapshot 完整的目录与账本数据，用于备份与合并导入
type Snapshot struct {
	ID                 string                     `json:"id"`
	Version            int                        `json:"version"`
	CreatedAt          time.Time                  `json:"created_at"`
	ExpenseTypes       []models.ExpenseType       `json:"expense_types"`
	ExpenseNames       []models.ExpenseName       `json:"expense_names"`
	PaymentMethods     []models.PaymentMethod     `json:"payment_methods"`
	Expenses           []models.Expense           `json:"expenses"`
	CreditCardPayments []models.CreditCardPayment `json:"credit_card_payments"`
}

// Backup 在一个事务内导出全部数据
func Backup(ctx context.Context, db *gorm.DB) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return readSnapshot(tx, snap)
	})
	if err != nil {
		return nil, storageErr("backup", err)
	}
	return snap, nil
}

func readSnapshot(db *gorm.DB, snap *Snapshot) error {
	if err := db.Order("id").Find(&snap.ExpenseTypes).Error; err != nil {
		return err
	}
	if err := db.Order("id").Find(&snap.ExpenseNames).Error; err != nil {
		return err
	}
	if err := db.Order("id").Find(&snap.PaymentMethods).Error; err != nil {
		return err
	}
	if err := db.Order("id").Find(&snap.Expenses).Error; err != nil {
		return err
	}
	return db.Order("id").Find(&snap.CreditCardPayments).Error
}

// DecodeSnapshot 解析 JSON 快照
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, invalid("file", "is not a valid snapshot: "+err.Error())
	}
	if snap.Version > SnapshotVersion {
		return nil, invalid("file", fmt.Sprintf("snapshot version %d is newer than supported version %d", snap.Version, SnapshotVersion))
	}
	return &snap, nil
}

var sqliteHeader = []byte("SQLite format 3\x00")

// LoadSnapshotFile 按文件头识别 SQLite 数据库或 JSON 快照
func LoadSnapshotFile(ctx context.Context, path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, invalid("file", "cannot open: "+err.Error())
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, _ := br.Peek(len(sqliteHeader)); bytes.Equal(head, sqliteHeader) {
		return LoadSQLiteSnapshot(ctx, path)
	}
	return DecodeSnapshot(br)
}

// 旧版数据库：消费项表名为 categories，支付方式用 type 列，还款金额为 payment_amount
const (
	legacyExpensesSQL = `SELECT id, date, expense_type_id, category_id AS expense_name_id, payment_method_id,
		COALESCE(description, '') AS description, amount, COALESCE(notes, '') AS notes FROM expenses ORDER BY id`
	legacyPaymentsSQL = `SELECT id, date, credit_card_name, payment_amount AS amount,
		COALESCE(notes, '') AS notes FROM credit_card_payments ORDER BY id`
)

// LoadSQLiteSnapshot 从 SQLite 数据库文件读取快照，支持当前结构与旧版结构
func LoadSQLiteSnapshot(ctx context.Context, path string) (*Snapshot, error) {
	src, err := gorm.Open(&sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=query_only(1)",
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, invalid("file", "cannot open database: "+err.Error())
	}
	if sqlDB, err := src.DB(); err == nil {
		defer sqlDB.Close()
	}
	src = src.WithContext(ctx)

	snap := &Snapshot{ID: uuid.NewString(), Version: SnapshotVersion, CreatedAt: time.Now().UTC()}
	m := src.Migrator()
	switch {
	case m.HasTable("expense_names"):
		err = readSnapshot(src, snap)
	case m.HasTable("categories"):
		err = readLegacySnapshot(src, snap)
	default:
		return nil, invalid("file", "is not a spending database")
	}
	if err != nil {
		return nil, invalid("file", "cannot read database: "+err.Error())
	}
	return snap, nil
}

func readLegacySnapshot(db *gorm.DB, snap *Snapshot) error {
	if err := db.Raw("SELECT id, name FROM expense_types ORDER BY id").Scan(&snap.ExpenseTypes).Error; err != nil {
		return err
	}
	if err := db.Raw("SELECT id, name FROM categories ORDER BY id").Scan(&snap.ExpenseNames).Error; err != nil {
		return err
	}
	if err := db.Raw("SELECT id, name, type AS kind FROM payment_methods ORDER BY id").Scan(&snap.PaymentMethods).Error; err != nil {
		return err
	}
	if err := db.Raw(legacyExpensesSQL).Scan(&snap.Expenses).Error; err != nil {
		return err
	}
	return db.Raw(legacyPaymentsSQL).Scan(&snap.CreditCardPayments).Error
}

// ClearResult 清库结果
type ClearResult struct {
	Expenses           int64 `json:"expenses"`
	CreditCardPayments int64 `json:"credit_card_payments"`
	PaymentMethods     int64 `json:"payment_methods"`
	ExpenseNames       int64 `json:"expense_names"`
	ExpenseTypes       int64 `json:"expense_types"`
	Reseeded           bool  `json:"reseeded"`
}

// ClearAll 在一个事务内按外键顺序删除全部数据，可选重新写入默认目录
func ClearAll(ctx context.Context, db *gorm.DB, reseed bool) (*ClearResult, error) {
	result := &ClearResult{Reseeded: reseed}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model any
			count *int64
		}{
			{&models.Expense{}, &result.Expenses},
			{&models.CreditCardPayment{}, &result.CreditCardPayments},
			{&models.PaymentMethod{}, &result.PaymentMethods},
			{&models.ExpenseName{}, &result.ExpenseNames},
			{&models.ExpenseType{}, &result.ExpenseTypes},
		}
		for _, s := range steps {
			res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(s.model)
			if res.Error != nil {
				return res.Error
			}
			*s.count = res.RowsAffected
		}
		if reseed {
			return database.SeedDefaults(tx)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("clear all", err)
	}
	return result, nil
}
