package utils

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestSanitizeValidationErrorEmail(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Email string `validate:"required,email"`
	}

	err := validate.Struct(TestReq{Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error for invalid email")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "valid email address") {
		t.Errorf("expected user-friendly email error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorRequired(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Code     string `validate:"required"`
		Password string `validate:"required,min=8"`
	}

	err := validate.Struct(TestReq{})
	if err == nil {
		t.Fatal("expected validation error for missing required fields")
	}

	msg := SanitizeValidationError(err)
	if !strings.Contains(msg, "code is required") || !strings.Contains(msg, "password is required") {
		t.Errorf("expected both fields reported, got: %s", msg)
	}
	if strings.Contains(msg, "TestReq") {
		t.Errorf("expected no struct names in error, got: %s", msg)
	}
}

func TestSanitizeValidationErrorShiftTags(t *testing.T) {
	validate := validator.New()

	type TestReq struct {
		Date            string `validate:"datetime=2006-01-02"`
		Start           string `validate:"datetime=15:04"`
		StoreID         string `validate:"oneof=store1 store2"`
		Password        string
		PasswordConfirm string `validate:"eqfield=Password"`
	}

	err := validate.Struct(TestReq{Date: "03/01/2025", Start: "9am", StoreID: "store9", Password: "a", PasswordConfirm: "b"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := SanitizeValidationError(err)
	for _, want := range []string{
		"date must match the format YYYY-MM-DD",
		"start must match the format HH:MM",
		"store_id must be one of: store1, store2",
		"password_confirm does not match password",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestSanitizeValidationErrorNonValidator(t *testing.T) {
	if msg := SanitizeValidationError(errors.New("invalid character 'x'")); msg != "Invalid request body" {
		t.Errorf("expected generic message, got: %s", msg)
	}
}

func TestSanitizeValidationErrorNilReturnsEmpty(t *testing.T) {
	if msg := SanitizeValidationError(nil); msg != "" {
		t.Errorf("expected empty string for nil error, got: %s", msg)
	}
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"Name":            "name",
		"StoreID":         "store_id",
		"PasswordConfirm": "password_confirm",
		"BreakDuration":   "break_duration",
	}
	for in, want := range cases {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := &multipart.FileHeader{Filename: name, Size: size, Header: make(textproto.MIMEHeader)}
	h.Header.Set("Content-Type", contentType)
	return h
}

func TestValidateFileUploadValidJPEG(t *testing.T) {
	if err := ValidateFileUpload(fileHeader("test.jpg", "image/jpeg", 1024)); err != nil {
		t.Errorf("expected no error for valid JPEG, got: %v", err)
	}
}

func TestValidateFileUploadTooLarge(t *testing.T) {
	err := ValidateFileUpload(fileHeader("huge.jpg", "image/jpeg", 10<<20))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got: %v", err)
	}
}

func TestValidateFileUploadInvalidType(t *testing.T) {
	err := ValidateFileUpload(fileHeader("document.pdf", "application/pdf", 1024))
	if err == nil || !strings.Contains(err.Error(), "invalid file type") {
		t.Errorf("expected content type error, got: %v", err)
	}
}

func TestValidateScheduleUpload(t *testing.T) {
	for _, name := range []string{"week.csv", "week.XLSX", "old.xls"} {
		if err := ValidateScheduleUpload(fileHeader(name, "application/octet-stream", 1024)); err != nil {
			t.Errorf("expected %s to be accepted, got: %v", name, err)
		}
	}
	if err := ValidateScheduleUpload(fileHeader("week.numbers", "application/octet-stream", 1024)); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if err := ValidateScheduleUpload(fileHeader("week.csv", "text/csv", 3<<20)); err == nil {
		t.Error("expected error for oversized schedule")
	}
}
