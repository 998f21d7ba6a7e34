package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PAGE_SIZE", "-3")
	t.Setenv("PROFILE_FILE", "")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowOrigins)
	assert.Equal(t, 10, cfg.PageSize, "invalid values fall back to the default")
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.Empty(t, cfg.ProfileFile)
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	yml := `name: Sri Lakshmi Canvassing
bank:
  ifsc: HDFC0001234
overrides:
  - pattern: nidhi agro
    rate: 0.02
    label: "2%"
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	p, err = LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Sri Lakshmi Canvassing", p.Name)
	assert.Equal(t, "HDFC0001234", p.Bank.IFSC)
	assert.Equal(t, "Axis Bank", p.Bank.BankName, "unset fields keep defaults")
	require.Len(t, p.Overrides, 1)
	assert.Equal(t, 0.02, p.Overrides[0].Rate)
	assert.Equal(t, "AEBPA6445G", p.PAN)
}

func TestLoadProfileInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadProfile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("overrides:\n  - pattern: \"\"\n    rate: 0.1\n"), 0o644))
	_, err = LoadProfile(bad)
	assert.ErrorContains(t, err, "invalid override")
}
