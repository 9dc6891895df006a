package seed

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage/jsonfile"
)

// legacyUser is the record shape of the old usuarios.json, which kept the
// password in clear text.
type legacyUser struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	CPF   string `json:"cpf"`
	Senha string `json:"senha"`
}

// legacyPixKey tolerates owner ids that were saved as strings.
type legacyPixKey struct {
	ID     string      `json:"id"`
	UserID json.Number `json:"userId"`
	Tipo   string      `json:"tipo"`
	Chave  string      `json:"chave"`
}

// LoadLegacy reads the flat JSON files of an old data directory into a
// Fixture. Missing files are treated as empty collections.
func LoadLegacy(dir string) (Fixture, error) {
	var f Fixture
	users, err := jsonfile.LoadCollection[legacyUser](filepath.Join(dir, jsonfile.UsersFile))
	if err != nil {
		return Fixture{}, err
	}
	if f.Transactions, err = jsonfile.LoadCollection[models.Transaction](filepath.Join(dir, jsonfile.TransactionsFile)); err != nil {
		return Fixture{}, err
	}
	if f.Cards, err = jsonfile.LoadCollection[models.Card](filepath.Join(dir, jsonfile.CardsFile)); err != nil {
		return Fixture{}, err
	}
	if f.Invoice, err = jsonfile.LoadCollection[models.InvoiceItem](filepath.Join(dir, jsonfile.InvoiceFile)); err != nil {
		return Fixture{}, err
	}
	keys, err := jsonfile.LoadCollection[legacyPixKey](filepath.Join(dir, jsonfile.PixKeysFile))
	if err != nil {
		return Fixture{}, err
	}

	for _, u := range users {
		f.Users = append(f.Users, User{ID: u.ID, Nome: u.Nome, CPF: u.CPF, Senha: u.Senha})
	}
	for _, k := range keys {
		owner, err := strconv.ParseInt(k.UserID.String(), 10, 64)
		if err != nil {
			return Fixture{}, fmt.Errorf("pix key %s: invalid userId %q", k.Chave, k.UserID)
		}
		f.PixKeys = append(f.PixKeys, models.PixKey{ID: k.ID, UserID: owner, Tipo: k.Tipo, Chave: k.Chave})
	}
	return f, nil
}
