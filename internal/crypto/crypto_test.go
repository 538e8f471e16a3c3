package crypto

import (
	"strings"
	"testing"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	return c
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCipher(t)
	for _, plain := range []string{"alice@example.com", "Jean Dupont", "+33 6 12 34 56 78", "é ü 漢字"} {
		ct, err := c.EncryptField(plain)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plain, err)
		}
		if !strings.HasPrefix(ct, ctPrefix) {
			t.Errorf("ciphertext %q missing format prefix", ct)
		}
		if got := c.DecryptField(ct); got != plain {
			t.Errorf("round trip: got %q, want %q", got, plain)
		}
	}
}

func TestEncryptEmptyPassthrough(t *testing.T) {
	c := testCipher(t)
	ct, err := c.EncryptField("")
	if err != nil || ct != "" {
		t.Errorf("empty in should be empty out, got (%q, %v)", ct, err)
	}
	if got := c.DecryptField(""); got != "" {
		t.Errorf("decrypt empty: got %q", got)
	}
}

func TestDoubleEncryptIdempotent(t *testing.T) {
	c := testCipher(t)
	once, err := c.EncryptField("secret value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	twice, err := c.EncryptField(once)
	if err != nil {
		t.Fatalf("re-encrypt: %v", err)
	}
	if once != twice {
		t.Error("encrypting existing ciphertext must return it unchanged")
	}
}

func TestDecryptForeignInputPassthrough(t *testing.T) {
	c := testCipher(t)
	// Legacy plaintext rows and corrupted ciphertext come back unchanged.
	for _, v := range []string{
		"plain legacy row",
		ctPrefix + "not base64 !!!",
		ctPrefix + "QUJD", // valid base64, too short for a nonce
	} {
		if got := c.DecryptField(v); got != v {
			t.Errorf("DecryptField(%q) = %q, want input unchanged", v, got)
		}
	}
}

func TestDecryptWrongKeyPassthrough(t *testing.T) {
	c := testCipher(t)
	ct, err := c.EncryptField("hidden")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	other, err := NewCipher([]byte("ffffffffffffffffffffffffffffffff"))
	if err != nil {
		t.Fatalf("cipher: %v", err)
	}
	if got := other.DecryptField(ct); got != ct {
		t.Errorf("foreign ciphertext should pass through, got %q", got)
	}
}

func TestBlindIndexNormalization(t *testing.T) {
	ix := NewIndexer([]byte("blind-index-secret"))
	a := ix.BlindIndex("Alice@Example.com")
	b := ix.BlindIndex("alice@example.com ")
	if a != b {
		t.Error("normalized equal inputs must produce equal digests")
	}
	if a == ix.BlindIndex("bob@example.com") {
		t.Error("different inputs must produce different digests")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if ix.BlindIndex("") != "" {
		t.Error("empty in should be empty out")
	}
}

func TestBlindIndexDeterministic(t *testing.T) {
	ix := NewIndexer([]byte("blind-index-secret"))
	if ix.BlindIndex("same@input.fr") != ix.BlindIndex("same@input.fr") {
		t.Error("blind index must be deterministic")
	}
	other := NewIndexer([]byte("another-secret"))
	if ix.BlindIndex("same@input.fr") == other.BlindIndex("same@input.fr") {
		t.Error("digests under different keys must differ")
	}
}

type record struct {
	Name       string
	Email      string
	EmailIndex string
	Untouched  string
}

func testCodec(t *testing.T) *Codec {
	t.Helper()
	codec := NewCodec(testCipher(t), NewIndexer([]byte("blind-index-secret")))
	codec.Register(record{}, []string{"Name", "Email"}, map[string]string{"Email": "EmailIndex"})
	return codec
}

func TestCodecEncryptDecryptEntity(t *testing.T) {
	codec := testCodec(t)
	r := record{Name: "Alice Martin", Email: "Alice@Example.com", Untouched: "keep"}
	if err := codec.EncryptEntity(&r); err != nil {
		t.Fatalf("encrypt entity: %v", err)
	}
	if !IsEncrypted(r.Name) || !IsEncrypted(r.Email) {
		t.Error("registered fields should be ciphertext after encryption")
	}
	if r.Untouched != "keep" {
		t.Error("unregistered field must not change")
	}
	if r.EmailIndex != codec.BlindIndex("alice@example.com") {
		t.Error("index must be derived from the normalized plaintext")
	}

	codec.DecryptEntity(&r)
	if r.Name != "Alice Martin" || r.Email != "Alice@Example.com" {
		t.Errorf("decrypt entity: got %q / %q", r.Name, r.Email)
	}
}

func TestCodecDoubleEncryptKeepsIndex(t *testing.T) {
	codec := testCodec(t)
	r := record{Name: "Alice", Email: "alice@example.com"}
	if err := codec.EncryptEntity(&r); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	name, email, idx := r.Name, r.Email, r.EmailIndex
	if err := codec.EncryptEntity(&r); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if r.Name != name || r.Email != email || r.EmailIndex != idx {
		t.Error("a second encryption pass must be a no-op")
	}
}

func TestCodecUnregisteredTypePassthrough(t *testing.T) {
	codec := testCodec(t)
	type other struct{ Value string }
	o := other{Value: "visible"}
	if err := codec.EncryptEntity(&o); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if o.Value != "visible" {
		t.Error("unregistered types must pass through")
	}
}

func TestCodecRegisterUnknownFieldPanics(t *testing.T) {
	codec := NewCodec(testCipher(t), NewIndexer([]byte("k")))
	defer func() {
		if recover() == nil {
			t.Error("registering a missing field should panic at startup")
		}
	}()
	codec.Register(record{}, []string{"NoSuchField"}, nil)
}
