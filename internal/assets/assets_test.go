// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package assets

import (
	"context"
	"strings"
	"testing"

	ferrors "github.com/arkedev/gitconf-server/internal/errors"
)

type fakeWorkspace struct {
	commit string
	blobs  map[string][]byte
	tree   []string
}

func (f *fakeWorkspace) ResolveRef(context.Context, *string) (string, error) {
	return f.commit, nil
}

func (f *fakeWorkspace) ReadBlob(_ context.Context, _, path string) ([]byte, error) {
	b, ok := f.blobs[path]
	if !ok {
		return nil, ferrors.ErrBlobNotFound
	}
	return b, nil
}

func (f *fakeWorkspace) ListTree(context.Context, string) ([]string, error) {
	return f.tree, nil
}

func TestCheckPathSafety(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"app.yml", false},
		{"dir/app.yml", false},
		{"/app.yml", true},
		{"../app.yml", true},
		{"dir/../app.yml", true},
		{"dir/..app.yml", false},
	}
	for _, tt := range tests {
		err := CheckPathSafety(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckPathSafety(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestListReturnsTree(t *testing.T) {
	ws := &fakeWorkspace{commit: "c1", tree: []string{"a.yml", "b.yml"}}
	got, err := List(context.Background(), ws)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List() = %v", got)
	}
}

func TestGetTextFileTemplatesAndGuessesMIME(t *testing.T) {
	ws := &fakeWorkspace{commit: "c1", blobs: map[string][]byte{
		"application.yml": []byte("msg: \"Hello {{ NAME }}\"\n"),
	}}
	f, err := Get(context.Background(), ws, nil, "application.yml", map[string]string{"NAME": "world"})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if f.IsBinary {
		t.Error("Get() IsBinary = true, want false")
	}
	if f.ContentType != "text/yaml" {
		t.Errorf("ContentType = %q, want text/yaml", f.ContentType)
	}
	if string(f.Content) != "msg: \"Hello world\"\n" {
		t.Errorf("Content = %q", f.Content)
	}
}

func TestGetTextFileMissingKeyIsEmptyString(t *testing.T) {
	ws := &fakeWorkspace{commit: "c1", blobs: map[string][]byte{
		"application.yml": []byte("msg: \"Hello {{ NAME }}\"\n"),
	}}
	f, err := Get(context.Background(), ws, nil, "application.yml", map[string]string{})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(f.Content) != "msg: \"Hello \"\n" {
		t.Errorf("Content = %q", f.Content)
	}
}

func TestGetBinaryFileBypassesTemplating(t *testing.T) {
	raw := []byte{0x00, 0x01, 0x02, 0x03}
	ws := &fakeWorkspace{commit: "c1", blobs: map[string][]byte{
		"logo.png": raw,
	}}
	f, err := Get(context.Background(), ws, nil, "logo.png", map[string]string{"X": "y"})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !f.IsBinary {
		t.Error("Get() IsBinary = false, want true")
	}
	if string(f.Content) != string(raw) {
		t.Errorf("Content = %v, want unchanged raw bytes", f.Content)
	}
	if f.ContentType == "" {
		t.Error("ContentType is empty")
	}
}

func TestGetJSONExtensionMIME(t *testing.T) {
	ws := &fakeWorkspace{commit: "c1", blobs: map[string][]byte{
		"data.json": []byte(`{"a":1}`),
	}}
	f, err := Get(context.Background(), ws, nil, "data.json", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.HasPrefix(f.ContentType, "application/json") {
		t.Errorf("ContentType = %q, want application/json", f.ContentType)
	}
}

func TestGetPlainTextExtensionMIME(t *testing.T) {
	ws := &fakeWorkspace{commit: "c1", blobs: map[string][]byte{
		"readme.txt": []byte("hello"),
	}}
	f, err := Get(context.Background(), ws, nil, "readme.txt", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if f.ContentType != "text/plain" {
		t.Errorf("ContentType = %q, want text/plain", f.ContentType)
	}
}

func TestGetNotFoundPropagates(t *testing.T) {
	ws := &fakeWorkspace{commit: "c1", blobs: map[string][]byte{}}
	_, err := Get(context.Background(), ws, nil, "missing.yml", nil)
	if !ferrors.Is(err, ferrors.ErrBlobNotFound) {
		t.Errorf("Get() error = %v, want ErrBlobNotFound", err)
	}
}
