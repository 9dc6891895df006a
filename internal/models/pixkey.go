package models

// PIX key types accepted on registration.
const (
	PixKeyCPF    = "cpf"
	PixKeyEmail  = "email"
	PixKeyPhone  = "telefone"
	PixKeyRandom = "aleatoria"
)

// PixKey binds a globally unique key value to its owner.
type PixKey struct {
	ID     string `json:"id" yaml:"id"`
	UserID int64  `json:"userId" yaml:"userId"`
	Tipo   string `json:"tipo" yaml:"tipo"`
	Chave  string `json:"chave" yaml:"chave"`
}
