package crypto

import (
	"fmt"
	"reflect"
)

// registration lists, for one entity type, the string fields to encrypt and
// the plaintext-field to index-field mapping.
type registration struct {
	fields []string
	index  map[string]string
}

// Codec applies field encryption declaratively. Entity types are registered
// once at startup with the fields to protect; the repository decorator then
// runs EncryptEntity before every write and DecryptEntity after every read,
// so no call site has to remember to do it.
type Codec struct {
	cipher  *Cipher
	indexer *Indexer
	regs    map[reflect.Type]registration
}

// NewCodec builds a codec over a cipher and an indexer.
func NewCodec(c *Cipher, ix *Indexer) *Codec {
	return &Codec{cipher: c, indexer: ix, regs: make(map[reflect.Type]registration)}
}

// Register declares the protected fields of an entity type. fields are
// struct field names holding string PII; index maps a plaintext field name
// to the field that stores its blind index.
//
//	codec.Register(models.Client{},
//		[]string{"FirstName", "LastName", "Email", "Phone", "CompanyName"},
//		map[string]string{"Email": "EmailIndex"})
//
// Registration happens once during startup; unknown field names panic there
// rather than failing on the first write.
func (cd *Codec) Register(entity any, fields []string, index map[string]string) {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, f := range fields {
		mustStringField(t, f)
	}
	for src, dst := range index {
		mustStringField(t, src)
		mustStringField(t, dst)
	}
	cd.regs[t] = registration{fields: fields, index: index}
}

// EncryptEntity encrypts the registered fields of entity (a struct pointer)
// in place and recomputes its blind indexes. Unregistered types pass
// through untouched. Index fields are derived from the plaintext before
// encryption; fields that already hold ciphertext keep their stored index.
func (cd *Codec) EncryptEntity(entity any) error {
	v, reg, ok := cd.lookup(entity)
	if !ok {
		return nil
	}
	for src, dst := range reg.index {
		plain := v.FieldByName(src).String()
		if IsEncrypted(plain) {
			continue
		}
		v.FieldByName(dst).SetString(cd.indexer.BlindIndex(plain))
	}
	for _, f := range reg.fields {
		fv := v.FieldByName(f)
		ct, err := cd.cipher.EncryptField(fv.String())
		if err != nil {
			return fmt.Errorf("encrypt %s: %w", f, err)
		}
		fv.SetString(ct)
	}
	return nil
}

// DecryptEntity decrypts the registered fields of entity in place. Legacy
// plaintext values survive unchanged.
func (cd *Codec) DecryptEntity(entity any) {
	v, reg, ok := cd.lookup(entity)
	if !ok {
		return
	}
	for _, f := range reg.fields {
		fv := v.FieldByName(f)
		fv.SetString(cd.cipher.DecryptField(fv.String()))
	}
}

// BlindIndex exposes the indexer digest for lookup queries against the
// stored index column.
func (cd *Codec) BlindIndex(v string) string {
	return cd.indexer.BlindIndex(v)
}

func (cd *Codec) lookup(entity any) (reflect.Value, registration, bool) {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, registration{}, false
	}
	v = v.Elem()
	reg, ok := cd.regs[v.Type()]
	return v, reg, ok
}

func mustStringField(t reflect.Type, name string) {
	f, ok := t.FieldByName(name)
	if !ok || f.Type.Kind() != reflect.String {
		panic(fmt.Sprintf("crypto: %s has no string field %q", t, name))
	}
}
