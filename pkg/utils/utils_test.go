package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h == "pw1" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("pw1", h) {
		t.Error("correct password rejected")
	}
	if CheckPassword("pw2", h) {
		t.Error("wrong password accepted")
	}
}

func TestNewUID(t *testing.T) {
	for i := 0; i < 100; i++ {
		uid, err := NewUID()
		if err != nil {
			t.Fatalf("new uid: %v", err)
		}
		if len(uid) != 6 {
			t.Fatalf("len(%q) = %d, want 6", uid, len(uid))
		}
		for _, r := range uid {
			if r < '0' || r > '9' {
				t.Fatalf("uid %q has non-digit", uid)
			}
		}
	}
}
