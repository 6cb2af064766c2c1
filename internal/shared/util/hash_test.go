package util

import "testing"

func TestHashKey(t *testing.T) {
	token := "session-7f3a"
	got := HashKey(token)
	if got != HashKey(token) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashKey(token+"x") {
		t.Fatalf("expected different inputs to produce different hashes")
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

func TestStem(t *testing.T) {
	if got := Stem("john_smith.resume.pdf"); got != "john_smith.resume" {
		t.Fatalf("unexpected stem %q", got)
	}
	if got := Stem("noext"); got != "noext" {
		t.Fatalf("unexpected stem %q", got)
	}
}

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"cv.PDF":    "application/pdf",
		"cv.docx":   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"old.doc":   "application/msword",
		"notes.txt": "application/octet-stream",
	}
	for name, want := range cases {
		if got := ContentTypeFor(name); got != want {
			t.Fatalf("ContentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}
