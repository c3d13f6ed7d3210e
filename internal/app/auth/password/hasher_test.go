package password

import "testing"

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher("pepper")

	hash, err := h.Hash("Secret123")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "Secret123" || hash == "" {
		t.Fatal("hash must be opaque and non-empty")
	}
	if !h.Verify("Secret123", hash) {
		t.Fatal("correct password must verify")
	}
	if h.Verify("Secret124", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHasher_Salted(t *testing.T) {
	h := NewHasher("pepper")
	h1, _ := h.Hash("Secret123")
	h2, _ := h.Hash("Secret123")
	if h1 == h2 {
		t.Fatal("two hashes of the same password must differ (salted)")
	}
	if !h.Verify("Secret123", h1) || !h.Verify("Secret123", h2) {
		t.Fatal("both salted hashes must verify")
	}
}

func TestHasher_PepperMatters(t *testing.T) {
	h1 := NewHasher("one")
	h2 := NewHasher("two")
	hash, _ := h1.Hash("Secret123")
	if h2.Verify("Secret123", hash) {
		t.Fatal("hash made with another pepper must not verify")
	}
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher("")
	if h.Verify("whatever", "not-an-argon2id-hash") {
		t.Fatal("malformed hash must verify to false")
	}
	if h.Verify("whatever", "") {
		t.Fatal("empty hash must verify to false")
	}
}
