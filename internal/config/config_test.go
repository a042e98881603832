package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GRCONSOLE_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Table.PageSize)
	require.Equal(t, "Нет данных", cfg.Table.EmptyMessage)
	require.Equal(t, "ru", cfg.Table.Locale)
	require.Equal(t, "2006-01-02", cfg.UI.DateFormat)
	require.Equal(t, filepath.Join(home, ".local", "share", "grconsole", "grconsole.db"), cfg.Database.Path)
	require.NoError(t, cfg.Validate())
	require.Equal(t, language.Russian.String(), cfg.Locale().String())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[table]\npage_size = 25\nempty_message = \"Пусто\"\n\n[ui]\noperator = \"ops@gr.local\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("GRCONSOLE_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 25, cfg.Table.PageSize)
	require.Equal(t, "Пусто", cfg.Table.EmptyMessage)
	require.Equal(t, "ops@gr.local", cfg.UI.Operator)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, 10, cfg.Table.PageSize)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[table\npage_size = "), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Table.PageSize = 7
	cfg.Table.Locale = "en"
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	base, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)

	bad := base
	bad.Table.PageSize = 0
	require.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad = base
	bad.Table.Locale = "not a locale!"
	require.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad = base
	bad.Log.Level = "loud"
	require.ErrorIs(t, bad.Validate(), ErrInvalid)

	bad = base
	bad.Database.Path = " "
	require.ErrorIs(t, bad.Validate(), ErrInvalid)
}
