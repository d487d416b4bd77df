package firebase

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSanitizeFilenameNormal(t *testing.T) {
	result := sanitizeFilename("image_test-file.jpg")
	if result != "image_test-file.jpg" {
		t.Errorf("expected 'image_test-file.jpg', got '%s'", result)
	}
}

func TestSanitizeFilenameSpecialChars(t *testing.T) {
	result := sanitizeFilename("공지 사진 (1)@#$.jpg")
	if strings.ContainsAny(result, " ()@#$") {
		t.Errorf("special chars not replaced: '%s'", result)
	}
	if !strings.HasSuffix(result, ".jpg") {
		t.Errorf("expected extension to survive, got '%s'", result)
	}
}

func TestSanitizeFilenameTooLong(t *testing.T) {
	result := sanitizeFilename(strings.Repeat("a", 200))
	if len(result) != 100 {
		t.Errorf("expected length 100, got %d", len(result))
	}
}

func TestSanitizeFilenameEmptyAndDots(t *testing.T) {
	for _, in := range []string{"", ".", ".."} {
		if got := sanitizeFilename(in); got != "file" {
			t.Errorf("sanitizeFilename(%q) = %q, want 'file'", in, got)
		}
	}
}

func TestNoticeObjectPath(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := noticeObjectPath("menu.png", now)
	b := noticeObjectPath("menu.png", now)

	if !strings.HasPrefix(a, "notices/1700000000_") || !strings.HasSuffix(a, "_menu.png") {
		t.Errorf("unexpected object path %s", a)
	}
	if a == b {
		t.Error("expected distinct paths for uploads in the same second")
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("shift-bucket", "notices/1_abc_menu.png")
	if got != "https://storage.googleapis.com/shift-bucket/notices/1_abc_menu.png" {
		t.Errorf("unexpected url %s", got)
	}
}

func TestUninitializedClient(t *testing.T) {
	var client *FirebaseStorageClient
	if _, err := client.UploadNoticeImage(context.Background(), strings.NewReader("x"), "a.png", "image/png"); err == nil {
		t.Error("expected error from nil client upload")
	}
	if err := (&FirebaseStorageClient{}).DeleteFile(context.Background(), "notices/a.png"); err == nil {
		t.Error("expected error from client without app")
	}
}
