package models

import "time"

type ArbiterModel struct {
	Address   string `gorm:"primaryKey"`
	IsArbiter bool
	IsSenior  bool
	UpdatedAt time.Time
}

func (ArbiterModel) TableName() string {
	return "arbiters"
}
