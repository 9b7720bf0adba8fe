package service

import (
	"errors"
	"fmt"
)

// ValidationError 输入校验失败，发生在任何写操作之前
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError 实体不存在
type NotFoundError struct {
	Entity string
	Key    string
	Hint   string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s '%s' not found", e.Entity, e.Key)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// ConflictError 操作与现有数据冲突，Count 为引用数量
type ConflictError struct {
	Reason string
	Count  int64
}

func (e *ConflictError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s (%d references)", e.Reason, e.Count)
	}
	return e.Reason
}

// StorageError 底层存储失败，不自动重试
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	// 已分类的错误原样返回
	var v *ValidationError
	var nf *NotFoundError
	var c *ConflictError
	var s *StorageError
	if errors.As(err, &v) || errors.As(err, &nf) || errors.As(err, &c) || errors.As(err, &s) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func paymentMethodNotFound(name string) error {
	return &NotFoundError{
		Entity: "Payment method",
		Key:    name,
		Hint:   "Please create it first in the Payment Methods tab.",
	}
}
