package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// 账本变更事件类型
const (
	ExpenseCreated     = "expense.created"
	ExpenseUpdated     = "expense.updated"
	ExpenseDeleted     = "expense.deleted"
	CardPaymentCreated = "card_payment.created"
	CardPaymentUpdated = "card_payment.updated"
	CardPaymentDeleted = "card_payment.deleted"
	LedgerMerged       = "ledger.merged"
	LedgerCleared      = "ledger.cleared"
	LedgerDuplicated   = "ledger.duplicated"
)

// Event 账本变更事件
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New 创建事件
func New(eventType string, payload any) Event {
	return Event{Type: eventType, Payload: payload, Timestamp: time.Now()}
}

// ToJSON 序列化事件
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher 未启用事件时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }

// Emit 发布事件，失败只记录日志，不影响已提交的账本写入
func Emit(ctx context.Context, p Publisher, eventType string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, New(eventType, payload)); err != nil {
		slog.WarnContext(ctx, "发布账本事件失败", "type", eventType, "error", err)
	}
}
