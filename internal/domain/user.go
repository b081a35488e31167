package domain

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
