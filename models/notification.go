package models

import "time"

type Notification struct {
	ID        string    `cassandra:"id" json:"id"`
	AccountID string    `cassandra:"account_id" json:"account_id"`
	Message   string    `cassandra:"message" json:"message"`
	CreatedAt time.Time `cassandra:"created_at" json:"created_at"`
	IsRead    bool      `cassandra:"is_read" json:"is_read"`
}
