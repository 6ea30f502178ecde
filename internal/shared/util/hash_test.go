package util

import "testing"

func TestHashText(t *testing.T) {
	got := HashText("an essay")
	if got != HashText("an essay") {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashText("another essay") {
		t.Fatalf("expected distinct hashes for distinct input")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}
