package auth

import (
	"strings"
	"testing"
)

func TestHashAndComparePasswords(t *testing.T) {
	hashed, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}

	digest, salt, ok := strings.Cut(hashed, ".")
	if !ok {
		t.Fatalf("hash %q is not digest.salt", hashed)
	}
	if len(digest) != 128 || len(salt) != 32 {
		t.Fatalf("digest len %d, salt len %d; want 128 and 32", len(digest), len(salt))
	}

	if !ComparePasswords("correct horse battery staple", hashed) {
		t.Error("correct password rejected")
	}
	if ComparePasswords("wrong password", hashed) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestComparePasswordsMalformed(t *testing.T) {
	tests := []string{
		"",
		"no-separator",
		"zz.abcd",
		"abcd.zz",
		".deadbeef",
	}
	for _, stored := range tests {
		if ComparePasswords("anything", stored) {
			t.Errorf("malformed stored value %q accepted", stored)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 64 {
		t.Fatalf("token len %d, want 64", len(a))
	}
	if a == b {
		t.Error("two generated tokens are identical")
	}
}
