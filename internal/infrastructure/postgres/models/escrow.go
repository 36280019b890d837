package models

import "time"

type EscrowModel struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	Buyer           string `gorm:"index"`
	Seller          string `gorm:"index"`
	Amount          uint64
	Description     string
	Status          string `gorm:"index"`
	DisputeReason   string
	Arbiter         string
	TotalRefunded   uint64
	RemainingAmount uint64
	CreatedAt       time.Time
	ExpiresAt       time.Time
	FundedAt        *time.Time
	UpdatedAt       time.Time
}

func (EscrowModel) TableName() string {
	return "escrows"
}
