package service

import (
	"epicrm/internal/crypto"
	"epicrm/internal/models"
)

// NewFieldCodec builds the process-wide field codec and declares which
// entity fields are protected. Client PII is ciphertext at rest; the email
// additionally gets a blind index so it stays searchable.
func NewFieldCodec(encryptionKey, blindIndexKey []byte) (*crypto.Codec, error) {
	cipher, err := crypto.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	codec := crypto.NewCodec(cipher, crypto.NewIndexer(blindIndexKey))
	codec.Register(models.Client{},
		[]string{"FirstName", "LastName", "Email", "Phone", "CompanyName"},
		map[string]string{"Email": "EmailIndex"})
	return codec, nil
}
