// Package paste turns what the user pasted, dropped or copied into the
// content sent for extraction.
package paste

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
	"github.com/gabriel-vasile/mimetype"
)

// Kind is the wire input_type of a pasted item.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// PreviewWidth is how many display cells of pasted text the paste box shows.
const PreviewWidth = 50

var ErrEmpty = errors.New("paste: nothing to paste")

// Content is one pasted item: either text or an image.
type Content struct {
	Kind  Kind
	Text  string
	Image []byte
	MIME  string
	// Path is set when the content was read from a dropped file.
	Path string
}

// Text wraps pasted text.
func Text(s string) Content {
	return Content{Kind: KindText, Text: s}
}

func (c Content) IsZero() bool {
	return c.Kind == "" || (c.Kind == KindText && strings.TrimSpace(c.Text) == "") ||
		(c.Kind == KindImage && len(c.Image) == 0)
}

// Base64 is the image payload as the backend expects it, without a data URL
// prefix.
func (c Content) Base64() string {
	return base64.StdEncoding.EncodeToString(c.Image)
}

// Preview is the one-line summary shown in the paste box.
func (c Content) Preview() string {
	switch c.Kind {
	case KindImage:
		name := c.MIME
		if c.Path != "" {
			name = c.Path
		}
		return fmt.Sprintf("[image %s, %d bytes]", name, len(c.Image))
	case KindText:
		flat := strings.Join(strings.Fields(c.Text), " ")
		if ansi.StringWidth(flat) <= PreviewWidth {
			return flat
		}
		return ansi.Truncate(flat, PreviewWidth, "") + "..."
	}
	return ""
}

// FromPaste interprets pasted text. Terminals paste a file path when a file
// is dropped on them; if the text names an image file the image is read
// instead.
func FromPaste(s string) (Content, error) {
	if strings.TrimSpace(s) == "" {
		return Content{}, ErrEmpty
	}
	if path, ok := droppedPath(s); ok {
		c, err := FromFile(path)
		if err == nil && c.Kind == KindImage {
			return c, nil
		}
	}
	return Text(s), nil
}

// FromFile reads a file, sniffing whether it holds an image or text.
func FromFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return Content{}, ErrEmpty
	}
	mt := mimetype.Detect(data)
	if strings.HasPrefix(mt.String(), "image/") {
		return Content{Kind: KindImage, Image: data, MIME: mt.String(), Path: path}, nil
	}
	if !strings.HasPrefix(mt.String(), "text/") {
		return Content{}, fmt.Errorf("%s: unsupported content %s", path, mt.String())
	}
	return Content{Kind: KindText, Text: string(data), MIME: mt.String(), Path: path}, nil
}

// Clipboard reads the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
}

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("paste: no clipboard utility available")
	}
	return clipboard.ReadAll()
}

// FromClipboard reads the clipboard and interprets it like a paste.
func FromClipboard(cb Clipboard) (Content, error) {
	s, err := cb.ReadAll()
	if err != nil {
		return Content{}, fmt.Errorf("read clipboard: %w", err)
	}
	return FromPaste(s)
}

// droppedPath recognises a single pasted path, as written by terminals on
// file drop: optionally quoted, file:// prefixed or with escaped spaces.
func droppedPath(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "\n\r") {
		return "", false
	}
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", false
		}
		s = u.Path
	}
	s = strings.ReplaceAll(s, `\ `, " ")
	if s == "" {
		return "", false
	}
	info, err := os.Stat(s)
	if err != nil || info.IsDir() {
		return "", false
	}
	return s, true
}
