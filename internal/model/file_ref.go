package model

import (
	"net/url"
	"path"
	"strings"
)

// File kinds shown on the admin dashboard.
const (
	FileKindPDF         = "pdf"
	FileKindImage       = "image"
	FileKindDocument    = "document"
	FileKindSpreadsheet = "spreadsheet"
	FileKindOther       = "other"
)

var extensionKinds = map[string]string{
	"pdf":  FileKindPDF,
	"jpg":  FileKindImage,
	"jpeg": FileKindImage,
	"png":  FileKindImage,
	"gif":  FileKindImage,
	"webp": FileKindImage,
	"bmp":  FileKindImage,
	"svg":  FileKindImage,
	"doc":  FileKindDocument,
	"docx": FileKindDocument,
	"xls":  FileKindSpreadsheet,
	"xlsx": FileKindSpreadsheet,
	"csv":  FileKindSpreadsheet,
}

// FileRef points at a document a user uploaded. It has no identity outside
// its owning user.
type FileRef struct {
	ID           uint   `json:"-" bson:"-" gorm:"primaryKey"`
	UserID       string `json:"-" bson:"-" gorm:"type:char(36);index;not null"`
	Position     int    `json:"-" bson:"-" gorm:"not null;default:0"`
	URL          string `json:"url" bson:"url" gorm:"size:2048;not null"`
	OriginalName string `json:"originalName" bson:"originalName" gorm:"size:512"`
	FileType     string `json:"fileType,omitempty" bson:"fileType,omitempty" gorm:"size:32"`
}

// TableName keeps the table name stable across model renames.
func (FileRef) TableName() string {
	return "user_files"
}

// Kind returns the explicit file type hint when set, otherwise the kind
// implied by the URL extension.
func (f FileRef) Kind() string {
	if f.FileType != "" {
		return strings.ToLower(f.FileType)
	}
	return KindFromExtension(urlExtension(f.URL))
}

// KindFromExtension maps an extension (with or without the dot) to a file kind.
func KindFromExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return FileKindOther
}

func urlExtension(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	return path.Ext(p)
}

// Extension returns the lowercase extension of the URL path, without the dot.
func (f FileRef) Extension() string {
	return strings.ToLower(strings.TrimPrefix(urlExtension(f.URL), "."))
}
