package util

import "testing"

func TestOwnerDirectory(t *testing.T) {
	id := "stu-2024-cs-017"
	got := OwnerDirectory(id)
	if got != OwnerDirectory(id) {
		t.Fatalf("expected stable directory, got %s", got)
	}
	if got == OwnerDirectory("stu-2024-cs-018") {
		t.Fatalf("expected distinct directories per student")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("directory contains non-hex character: %c", ch)
		}
	}
	if len(got) != 32 {
		t.Fatalf("expected 32 hex characters, got %d", len(got))
	}
}
