package service

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(size int64, contentType string) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "doc.pdf",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     bool
	}{
		{name: "pdf within limit", size: 1 << 20, contentType: "application/pdf", wantErr: false},
		{name: "jpeg within limit", size: 100, contentType: "image/jpeg", wantErr: false},
		{name: "png within limit", size: 100, contentType: "image/png", wantErr: false},
		{name: "gif within limit", size: 100, contentType: "image/gif", wantErr: false},
		{name: "exactly at the limit", size: MaxUploadSize, contentType: "application/pdf", wantErr: false},
		{name: "one byte over the limit", size: MaxUploadSize + 1, contentType: "application/pdf", wantErr: true},
		{name: "disallowed type", size: 100, contentType: "application/zip", wantErr: true},
		{name: "missing content type", size: 100, contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(fileHeader(tt.size, tt.contentType))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateFile_NilFile(t *testing.T) {
	require.Error(t, ValidateFile(nil))
}

func TestInArray(t *testing.T) {
	assert.True(t, InArray("b", []string{"a", "b", "c"}))
	assert.False(t, InArray("d", []string{"a", "b", "c"}))
	assert.True(t, InArray(2, []int{1, 2, 3}))
	assert.False(t, InArray(0, nil))
}
