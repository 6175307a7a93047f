package paste

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// smallest valid PNG: signature plus IHDR chunk header is enough to sniff.
var pngBytes = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0, 0, 0, 13, 'I', 'H', 'D', 'R',
	0, 0, 0, 1, 0, 0, 0, 1, 8, 6, 0, 0, 0,
	0x1f, 0x15, 0xc4, 0x89,
}

type fakeClipboard struct {
	text string
	err  error
}

func (f fakeClipboard) ReadAll() (string, error) { return f.text, f.err }

func TestPreviewTruncatesText(t *testing.T) {
	t.Parallel()

	short := Text("USD/CLP 1mm\n at 950.5")
	require.Equal(t, "USD/CLP 1mm at 950.5", short.Preview())

	long := Text(strings.Repeat("a", 60))
	require.Equal(t, strings.Repeat("a", 50)+"...", long.Preview())

	exact := Text(strings.Repeat("b", 50))
	require.Equal(t, strings.Repeat("b", 50), exact.Preview())
}

func TestFromPasteText(t *testing.T) {
	t.Parallel()

	c, err := FromPaste("Ana sells USD 1mm vs CLP")
	require.NoError(t, err)
	require.Equal(t, KindText, c.Kind)
	require.False(t, c.IsZero())

	_, err = FromPaste("  \n ")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestFromPasteDroppedImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "trade shot.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0o600))

	for _, in := range []string{path, "'" + path + "'", strings.ReplaceAll(path, " ", `\ `) + "\n"} {
		c, err := FromPaste(in)
		require.NoError(t, err)
		require.Equal(t, KindImage, c.Kind, in)
		require.Equal(t, "image/png", c.MIME)
		require.Equal(t, path, c.Path)
		require.NotEmpty(t, c.Base64())
		require.Contains(t, c.Preview(), "image")
	}
}

func TestFromPasteTextFilePathStaysText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	c, err := FromPaste(path)
	require.NoError(t, err)
	require.Equal(t, KindText, c.Kind)
	require.Equal(t, path, c.Text)
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(txt, []byte("Banco Andes buys 1mm USD"), 0o600))
	c, err := FromFile(txt)
	require.NoError(t, err)
	require.Equal(t, KindText, c.Kind)
	require.Equal(t, "Banco Andes buys 1mm USD", c.Text)

	_, err = FromFile(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

func TestFromClipboard(t *testing.T) {
	t.Parallel()

	c, err := FromClipboard(fakeClipboard{text: "swap 5y CLP ICP"})
	require.NoError(t, err)
	require.Equal(t, "swap 5y CLP ICP", c.Text)

	_, err = FromClipboard(fakeClipboard{err: errors.New("no xclip")})
	require.Error(t, err)
}
