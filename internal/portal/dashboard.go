// Package portal implements the admin dashboard on top of the API client and
// the admin session.
package portal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"ragrids/internal/client"
	"ragrids/internal/model"
	"ragrids/internal/session"
)

// API is the part of the portal client the dashboard needs.
type API interface {
	Customers(ctx context.Context, token string) ([]model.User, error)
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// Document is a customer upload as shown on the dashboard.
type Document struct {
	Name string
	URL  string
	Kind string
	ref  model.FileRef
}

// Customer is one dashboard row.
type Customer struct {
	User      model.User
	Documents []Document
}

// Dashboard lists customers and their documents for a signed-in admin.
type Dashboard struct {
	api    API
	guard  *session.Guard
	logout func(ctx context.Context) error
	now    func() time.Time
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLogout sets what SignOut does.
func WithLogout(fn func(ctx context.Context) error) Option {
	return func(d *Dashboard) {
		if fn != nil {
			d.logout = fn
		}
	}
}

// NewDashboard builds a dashboard guarded by the admin session. Without
// WithLogout, SignOut does nothing.
func NewDashboard(api API, sess *session.Context, opts ...Option) *Dashboard {
	d := &Dashboard{
		api:    api,
		guard:  session.AdminGuard(sess),
		logout: func(context.Context) error { return nil },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Customers returns every customer with its documents. An empty collection
// is an empty list, whichever way the server reports it.
func (d *Dashboard) Customers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	err := d.guard.Protect(func(ctx context.Context, st session.State) error {
		users, err := d.api.Customers(ctx, st.Token)
		if client.IsNotFound(err) {
			out = []Customer{}
			return nil
		}
		if err != nil {
			return err
		}
		out = make([]Customer, 0, len(users))
		for _, u := range users {
			row := Customer{User: u, Documents: make([]Document, 0, len(u.Files))}
			for _, f := range u.Files {
				row.Documents = append(row.Documents, Document{
					Name: f.OriginalName,
					URL:  f.URL,
					Kind: f.Kind(),
					ref:  f,
				})
			}
			out = append(out, row)
		}
		return nil
	})(ctx)
	return out, err
}

// Download saves doc into dir and returns the written path.
func (d *Dashboard) Download(ctx context.Context, doc Document, dir string) (string, error) {
	var path string
	err := d.guard.Protect(func(ctx context.Context, _ session.State) error {
		body, err := d.api.Download(ctx, doc.URL)
		if err != nil {
			return err
		}
		defer body.Close()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path = filepath.Join(dir, downloadName(doc.ref, d.now()))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, body); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		return f.Close()
	})(ctx)
	return path, err
}

// SignOut runs the injected logout.
func (d *Dashboard) SignOut(ctx context.Context) error {
	return d.logout(ctx)
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true, "bmp": true, "svg": true, "ico": true,
}

var unsafeName = regexp.MustCompile(`[/\\:*?"<>|]+`)

// DownloadName is the original name with its extension replaced by the one
// implied by the document kind. Unnamed documents are named after the time
// of download.
func DownloadName(f model.FileRef) string {
	return downloadName(f, time.Now())
}

func downloadName(f model.FileRef, now time.Time) string {
	base := strings.TrimSuffix(f.OriginalName, filepath.Ext(f.OriginalName))
	if base == "" {
		base = fmt.Sprintf("document_%d", now.UnixMilli())
	}
	base = unsafeName.ReplaceAllString(base, "_")

	var ext string
	switch f.Kind() {
	case model.FileKindPDF:
		ext = "pdf"
	case model.FileKindImage:
		ext = f.Extension()
		if !imageExtensions[ext] {
			ext = "jpg"
		}
	case model.FileKindDocument:
		ext = "docx"
	case model.FileKindSpreadsheet:
		ext = "xlsx"
	default:
		ext = f.Extension()
		if ext == "" {
			ext = "file"
		}
	}
	return base + "." + ext
}
