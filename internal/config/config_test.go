package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"NOTION_API_KEY", "YTSUMMARY_NOTION_DATABASE_ID", "NOTION_VERSION", "NOTION_TIMEOUT",
	"RECAP_SUMMARIZER", "GEMINI_BOT", "GEMINI_BOT_PYTHON", "SUMMARIZER_TIMEOUT",
	"OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
	"RECAP_CHUNK_SIZE", "RECAP_MAX_TRANSCRIPT_CHARS", "RECAP_DIVIDER", "RECAP_DENYLIST",
	"TRANSCRIPT_API_KEY", "RECAP_CHANNELS", "RECAP_TIMEZONE", "LOG_MODE",
}

// isolate runs the test in an empty directory with an empty home and a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, 1500, cfg.ChunkSize)
	assert.Equal(t, 60000, cfg.MaxTranscriptChars)
	assert.True(t, cfg.Divider)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
database_id: db-from-yaml
summarizer: OpenAI
chunk_size: 900
divider: false
notion_timeout: 10s
denylist:
  - 訂閱頻道
  - Gemini
`), 0o644))

	t.Setenv("YTSUMMARY_NOTION_DATABASE_ID", "db-from-env")
	t.Setenv("NOTION_API_KEY", "secret")
	t.Setenv("RECAP_MAX_TRANSCRIPT_CHARS", "1234")

	cfg, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, "db-from-env", cfg.DatabaseID)
	assert.Equal(t, "secret", cfg.NotionAPIKey)
	assert.Equal(t, "openai", cfg.Summarizer)
	assert.Equal(t, 900, cfg.ChunkSize)
	assert.Equal(t, 1234, cfg.MaxTranscriptChars)
	assert.False(t, cfg.Divider)
	assert.Equal(t, 10*time.Second, cfg.NotionTimeout)
	assert.Equal(t, []string{"訂閱頻道", "Gemini"}, cfg.Denylist)
}

func TestLoad_DefaultFileAndDotEnv(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("chunk_size: 700\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECAP_DENYLIST=a, b ,,c\n"), 0o644))
	// godotenv does not override variables that are already present, so unset it.
	require.NoError(t, os.Unsetenv("RECAP_DENYLIST"))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 700, cfg.ChunkSize)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Denylist)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	isolate(t)
	t.Setenv("RECAP_CHUNK_SIZE", "-5")
	t.Setenv("NOTION_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1500, cfg.ChunkSize)
	assert.Equal(t, 30*time.Second, cfg.NotionTimeout)
}

func TestLoad_ChunkSizeCappedAtStoreLimit(t *testing.T) {
	isolate(t)
	t.Setenv("RECAP_CHUNK_SIZE", "5000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.ChunkSize)

	t.Setenv("RECAP_CHUNK_SIZE", "800")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.ChunkSize)
}

func TestLoad_OpenClawFallback(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".openclaw"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".openclaw", "openclaw.json"),
		[]byte(`{"skills":{"entries":{"transcriptapi":{"apiKey":"tapi-123"}}}}`), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tapi-123", cfg.TranscriptAPIKey)

	t.Setenv("TRANSCRIPT_API_KEY", "from-env")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TranscriptAPIKey)
}

func TestOpenClawKey_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openclaw.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	assert.Equal(t, "", openClawKey(path))
	assert.Equal(t, "", openClawKey(filepath.Join(dir, "missing.json")))
}

func TestValidate(t *testing.T) {
	cfg := Default()

	err := cfg.ValidateStore()
	assert.True(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "NOTION_API_KEY")

	cfg.NotionAPIKey = "key"
	assert.NoError(t, cfg.ValidateStore())

	err = cfg.ValidateDatabase()
	assert.True(t, errors.Is(err, ErrMissingConfig))
	assert.Contains(t, err.Error(), "YTSUMMARY_NOTION_DATABASE_ID")

	cfg.DatabaseID = "db"
	assert.NoError(t, cfg.ValidateDatabase())
}
