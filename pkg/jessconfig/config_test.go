package jessconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, SliceMethod, cfg.Options.SliceMode)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.Options.WorkDir)
}

func TestLoad_OverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jess.toml")
	contents := "[options]\nwork_dir = \"from-file\"\nslice_mode = \"class\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path, &Options{WorkDir: "from-override"})
	require.NoError(t, err)
	assert.Equal(t, "from-override", cfg.Options.WorkDir)
	assert.Equal(t, SliceClass, cfg.Options.SliceMode, "non-overridden fields keep the file's value")
}

func TestValidate_RejectsUnknownSliceMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Options.SliceMode = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsEmptyWorkDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Options.WorkDir = ""
	assert.Error(t, cfg.Validate())
}
