package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"spending/models"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogTable 可惰性创建的目录表
type CatalogTable string

const (
	ExpenseTypes CatalogTable = "expense_types"
	ExpenseNames CatalogTable = "expense_names"
)

type catalogRow struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

// Resolver 把自由文本名称解析为目录 id
// 消费类型/消费项不存在时自动创建，支付方式必须已存在
type Resolver struct {
	db    *gorm.DB
	group *singleflight.Group
}

// NewResolver 创建解析器
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db, group: &singleflight.Group{}}
}

// WithTx 返回绑定到事务的解析器
// 事务内的写入对其他连接不可见，因此不参与 singleflight 合并
func (r *Resolver) WithTx(tx *gorm.DB) *Resolver {
	return &Resolver{db: tx}
}

// ResolveOrCreate 按名称查找，不存在则插入；并发的相同插入只会产生一行
func (r *Resolver) ResolveOrCreate(ctx context.Context, table CatalogTable, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid(fieldFor(table), "must not be empty")
	}
	if r.group == nil {
		return r.resolveOrCreate(ctx, table, name)
	}

	// 合并后的调用由多个请求共享，不随首个请求的取消而中断
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(string(table)+"\x00"+name, func() (any, error) {
		return r.resolveOrCreate(shared, table, name)
	})
	if err != nil {
		return 0, err
	}
	return v.(uint), nil
}

func (r *Resolver) resolveOrCreate(ctx context.Context, table CatalogTable, name string) (uint, error) {
	db := r.db.WithContext(ctx)

	id, err := lookupCatalog(db, table, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, storageErr("lookup "+string(table), err)
	}

	row := catalogRow{Name: name, CreatedAt: time.Now()}
	res := db.Table(string(table)).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return 0, storageErr("insert "+string(table), res.Error)
	}
	if res.RowsAffected > 0 && row.ID != 0 {
		return row.ID, nil
	}

	// 唯一约束冲突：其他写入者已插入，读取胜出的那一行
	id, err = lookupCatalog(db, table, name)
	if err != nil {
		return 0, storageErr("lookup "+string(table), err)
	}
	return id, nil
}

// ResolveStrict 按名称查找支付方式，不存在时返回 NotFoundError
func (r *Resolver) ResolveStrict(ctx context.Context, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid("payment_method", "must not be empty")
	}

	var pm models.PaymentMethod
	err := r.db.WithContext(ctx).Select("id").Where("name = ?", name).Take(&pm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, paymentMethodNotFound(name)
	}
	if err != nil {
		return 0, storageErr("lookup payment_methods", err)
	}
	return pm.ID, nil
}

func lookupCatalog(db *gorm.DB, table CatalogTable, name string) (uint, error) {
	var row catalogRow
	if err := db.Table(string(table)).Select("id").Where("name = ?", name).Take(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func fieldFor(table CatalogTable) string {
	if table == ExpenseNames {
		return "expense_name"
	}
	return "expense_type"
}
