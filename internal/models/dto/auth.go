package dto

type RegisterRequest struct {
	Nome  string `json:"nome"`
	CPF   string `json:"cpf"`
	Senha string `json:"senha"`
}

type LoginRequest struct {
	CPF   string `json:"cpf"`
	Senha string `json:"senha"`
}

// UserSummary is the slice of the user the client keeps for the session.
type UserSummary struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
	CPF  string `json:"cpf,omitempty"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *UserSummary `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
}
