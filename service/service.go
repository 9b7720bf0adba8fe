package service

import (
	"context"

	"spending/config"
	"spending/events"

	"gorm.io/gorm"
)

// Services 组装好的业务服务，供 HTTP 与命令行共用
type Services struct {
	DB         *gorm.DB
	Catalog    *Catalog
	Ledger     *Ledger
	Reports    *Reports
	Duplicator *Duplicator
	Importer   *Importer
	Email      *EmailService
	Publisher  events.Publisher

	seedDefaults bool
}

// New 创建全部服务
func New(db *gorm.DB, cfg *config.Config, publisher events.Publisher) *Services {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	resolver := NewResolver(db)
	ledger := NewLedger(db, resolver, publisher)

	s := &Services{
		DB:         db,
		Catalog:    NewCatalog(db),
		Ledger:     ledger,
		Reports:    NewReports(db),
		Duplicator: NewDuplicator(ledger, publisher),
		Importer:   NewImporter(db, resolver, publisher),
		Publisher:  publisher,
	}
	if cfg != nil {
		s.Email = NewEmailService(&cfg.Email)
		s.seedDefaults = cfg.Database.SeedDefaults
	}
	return s
}

// Backup 导出完整快照
func (s *Services) Backup(ctx context.Context) (*Snapshot, error) {
	return Backup(ctx, s.DB)
}

// ClearAll 清空数据库；启用默认数据时重新写入默认目录
func (s *Services) ClearAll(ctx context.Context) (*ClearResult, error) {
	result, err := ClearAll(ctx, s.DB, s.seedDefaults)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Publisher, events.LedgerCleared, result)
	return result, nil
}
