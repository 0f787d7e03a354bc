package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRef_Kind(t *testing.T) {
	tests := []struct {
		name string
		file FileRef
		want string
	}{
		{"explicit hint wins", FileRef{URL: "https://cdn/x.pdf", FileType: "Image"}, FileKindImage},
		{"pdf by extension", FileRef{URL: "https://cdn/bill.PDF"}, FileKindPDF},
		{"image ignores query", FileRef{URL: "https://cdn/roof.jpeg?sig=abc.pdf"}, FileKindImage},
		{"spreadsheet", FileRef{URL: "https://cdn/usage.csv"}, FileKindSpreadsheet},
		{"document", FileRef{URL: "https://cdn/deed.docx"}, FileKindDocument},
		{"no extension", FileRef{URL: "https://cdn/blob"}, FileKindOther},
		{"unknown extension", FileRef{URL: "https://cdn/archive.zip"}, FileKindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.file.Kind())
		})
	}
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	u := User{ID: "u1", Email: "a@x.com", PasswordHash: "secret-hash", Files: []FileRef{{URL: "https://cdn/a.pdf", OriginalName: "a.pdf"}}}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-hash")
	assert.Contains(t, string(data), `"originalName":"a.pdf"`)

	a := Admin{ID: "a1", PasswordHash: "admin-hash"}
	data, err = json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "admin-hash")
}

func TestProfilePatch_Columns(t *testing.T) {
	district := "New"
	p := ProfilePatch{District: &district}

	assert.False(t, p.Empty())
	assert.Equal(t, map[string]interface{}{"district": "New"}, p.Columns())
	assert.True(t, ProfilePatch{}.Empty())
}

func TestFileRef_Extension(t *testing.T) {
	assert.Equal(t, "jpeg", FileRef{URL: "http://blobs.test/users/u1/abc.JPEG?X-Amz-Signature=1"}.Extension())
	assert.Equal(t, "", FileRef{URL: "http://blobs.test/users/u1/abc"}.Extension())
}
