package model

import "time"

// StoredState is one persisted key/value pair, e.g. "meshur-cart:<session>" -> JSON.
type StoredState struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoredState) TableName() string {
	return "stored_states"
}
