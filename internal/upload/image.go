// Package upload stages a user-selected image for catalog item
// submission. A selection passes two gates, size then declared MIME
// subtype, before it is staged; a failed gate clears any previously
// staged file so a stale valid image cannot be submitted after a later
// invalid selection.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MaxBytes is the upload size ceiling: 1,000 KiB.
const MaxBytes = 1000 * 1024

var (
	// ErrTooLarge is reported when the selected file exceeds MaxBytes.
	ErrTooLarge = errors.New("file must be 1 MB or smaller")
	// ErrBadType is reported when the declared MIME subtype is not an
	// accepted image format.
	ErrBadType = errors.New("file must be a jpeg, jpg or png image")
)

var allowedSubtypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
}

// File is a locally selected file: its name, declared MIME type, and
// raw bytes. The staged File (not the decoded preview) is what a
// submission carries.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ReadFile loads a file from disk, deriving the declared MIME type from
// the extension and falling back to content sniffing.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading file: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return File{Name: filepath.Base(path), ContentType: contentType, Data: data}, nil
}

// Pipeline validates selections and decodes accepted files into a
// data-URI preview. The decode runs asynchronously; a Select or Reset
// issued after a decode was dispatched invalidates that decode, so late
// completions never overwrite newer state.
type Pipeline struct {
	mu      sync.Mutex
	staged  *File
	preview string
	gen     uint64

	// OnPreview, when set, is called with the data URI once a selected
	// file has been decoded. It runs on the decode goroutine.
	OnPreview func(dataURI string)
}

// Select runs the gates on f. On success f becomes the staged file and
// an async preview decode starts. On failure the previously staged file
// is cleared and the gate's error returned.
func (p *Pipeline) Select(f File) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(f.Data) > MaxBytes {
		p.clearLocked()
		return ErrTooLarge
	}
	if !allowedSubtypes[subtype(f.ContentType)] {
		p.clearLocked()
		return ErrBadType
	}

	p.staged = &f
	p.preview = ""
	p.gen++
	go p.decode(f, p.gen)
	return nil
}

// Staged returns the currently staged file, if any.
func (p *Pipeline) Staged() (File, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.staged == nil {
		return File{}, false
	}
	return *p.staged, true
}

// Preview returns the decoded data URI of the staged file, or "" if no
// decode has completed for it yet.
func (p *Pipeline) Preview() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

// Reset discards the staged file, the preview, and any in-flight decode.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

func (p *Pipeline) clearLocked() {
	p.staged = nil
	p.preview = ""
	p.gen++
}

func (p *Pipeline) decode(f File, gen uint64) {
	uri := "data:" + f.ContentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)

	p.mu.Lock()
	if gen != p.gen {
		// A later Select or Reset superseded this decode.
		p.mu.Unlock()
		return
	}
	p.preview = uri
	cb := p.OnPreview
	p.mu.Unlock()

	if cb != nil {
		cb(uri)
	}
}

func subtype(contentType string) string {
	_, sub, ok := strings.Cut(contentType, "/")
	if !ok {
		return ""
	}
	// Strip parameters such as "; charset=..." if present.
	if i := strings.IndexByte(sub, ';'); i >= 0 {
		sub = sub[:i]
	}
	return strings.ToLower(strings.TrimSpace(sub))
}
