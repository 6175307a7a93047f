package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TRADESNIPPER_CONFIG", "")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5008/api/process-fx", c.Extraction.FXURL)
	require.Equal(t, "http://localhost:5001/api/process-swap", c.Extraction.SwapURL)
	require.Equal(t, "Murex", c.Booking.Target)
	require.Equal(t, 2*time.Second, c.Booking.Delay)
	require.Equal(t, "detected_trade.json", c.Export.Filename)
	require.Equal(t, []string{"CLP", "CLF", "USD", "EUR", "CHF"}, c.UI.Currencies)
	require.Equal(t, filepath.Join(home, ".local", "share", "tradesnipper", "tradesnipper.db"), c.Database.Path)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[extraction]
fx_url = "http://backend:9000/api/process-fx"
timeout = "5s"

[booking]
target = "Calypso"
`), 0o600))
	t.Setenv("TRADESNIPPER_CONFIG", path)
	t.Setenv("TRADESNIPPER_BOOKING_DELAY", "250ms")
	t.Setenv("TRADESNIPPER_EXTRACTION_SWAP_URL", "http://backend:9001/api/process-swap")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://backend:9000/api/process-fx", c.Extraction.FXURL)
	require.Equal(t, "http://backend:9001/api/process-swap", c.Extraction.SwapURL)
	require.Equal(t, 5*time.Second, c.Extraction.Timeout)
	require.Equal(t, "Calypso", c.Booking.Target)
	require.Equal(t, 250*time.Millisecond, c.Booking.Delay)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[extraction\nfx_url = "), 0o600))
	t.Setenv("TRADESNIPPER_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("TRADESNIPPER_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	c.Booking.Target = "Calypso"
	c.UI.Currencies = []string{"USD", "JPY"}
	c.Extraction.Timeout = 3 * time.Second
	require.NoError(t, Save(c))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Calypso", got.Booking.Target)
	require.Equal(t, []string{"USD", "JPY"}, got.UI.Currencies)
	require.Equal(t, 3*time.Second, got.Extraction.Timeout)
}
