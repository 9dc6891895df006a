package models

import "time"

// User captures application-facing fields for an account holder.
type User struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	CPF          string    `json:"cpf"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
