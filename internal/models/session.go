package models

import "time"

// CartEntry is one persisted cart line owned by a session.
type CartEntry struct {
	ID        string `gorm:"primaryKey;type:varchar(80)"`
	SessionID string `gorm:"index;type:varchar(100)"`
	Position  int64  `gorm:"index"`
	Payload   string `gorm:"type:text"` // JSON encoded OrderItem
	CreatedAt time.Time
}

// Profile is the requester identity remembered for a session.
type Profile struct {
	SessionID  string    `json:"-" gorm:"primaryKey;type:varchar(100)"`
	UserName   string    `json:"userName" validate:"required,max=100"`
	Department string    `json:"department" validate:"required,max=100"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Admin holds the credential used to open the admin views.
type Admin struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Identifier string `json:"identifier" gorm:"uniqueIndex;type:varchar(100)"`
	SecretHash string `json:"-" gorm:"type:varchar(255)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StoreRow is one row of the tabular order store, addressed by ID.
type StoreRow struct {
	ID        string `gorm:"primaryKey;type:varchar(80)"`
	Payload   string `gorm:"type:text"` // JSON object of column name to value
	CreatedAt time.Time
	UpdatedAt time.Time
}
