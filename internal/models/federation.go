package models

import "time"

// Federation is a named set of groups sharing one ban list
type Federation struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	FedID     string `gorm:"uniqueIndex;size:64;not null"`
	Name      string
	OwnerID   int64
	CreatedAt time.Time
}

// FederationBan is a ban shared by every group subscribed to a federation
type FederationBan struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	FedID     string `gorm:"uniqueIndex:idx_fed_user;size:64;not null"`
	UserID    int64  `gorm:"uniqueIndex:idx_fed_user;not null"`
	Reason    string `gorm:"type:text"`
	IssuerID  int64
	CreatedAt time.Time
}
