package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType 流水类型
type TransactionType string

const (
	TransactionPayment TransactionType = "PAYMENT"
	TransactionRefund  TransactionType = "REFUND"
)

// TransactionStatus 流水状态
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
)

// Transaction 支付流水，只追加不修改
type Transaction struct {
	ID         string            `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID    string            `gorm:"type:uuid;index;not null" json:"order_id"`
	OrderNo    string            `gorm:"type:varchar(32);index;not null" json:"order_no"`
	Type       TransactionType   `gorm:"type:varchar(10);not null" json:"type"`
	Amount     decimal.Decimal   `gorm:"type:numeric(10,2);not null" json:"amount"`
	Platform   string            `gorm:"type:varchar(20);not null" json:"platform"`
	ExternalID *string           `gorm:"type:varchar(64)" json:"external_id,omitempty"`
	RawPayload string            `gorm:"type:text" json:"raw_payload,omitempty"`
	Status     TransactionStatus `gorm:"type:varchar(10);not null" json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (Transaction) TableName() string {
	return "payment_transactions"
}

// BeforeCreate 生成 UUID
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
