package handlers

import (
	"context"
	"io"
)

type mockStorage struct {
	UploadNoticeImageFn func(filename, contentType string, data []byte) (string, error)
	DeleteFileFn        func(objectPath string) error
	DeleteFileCalls     []string
	Uploaded            []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadNoticeImage(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if m.UploadNoticeImageFn != nil {
		return m.UploadNoticeImageFn(filename, contentType, data)
	}
	m.Uploaded = append(m.Uploaded, filename)
	return "https://storage.googleapis.com/test-bucket/notices/" + filename, nil
}

func (m *mockStorage) DeleteFile(ctx context.Context, objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
