package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Store:  StoreConfig{BasePath: "/some/path"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyBasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Store.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data path cannot be empty")
}

func TestValidate_AdminEmailWithoutPassword(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Email = "admin@davedeals.test"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")

	cfg.Admin.Password = "hunter2hunter2"
	assert.NoError(t, cfg.Validate())
}

func TestExpandBasePath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandBasePath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "DaveDeals", "data"), cfg.Store.BasePath)
}

func TestExpandBasePath_TildeExpansion(t *testing.T) {
	cfg := &Config{Store: StoreConfig{BasePath: "~/my-data"}}

	require.NoError(t, cfg.expandBasePath())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "my-data"), cfg.Store.BasePath)
}

func TestExpandBasePath_AbsolutePath(t *testing.T) {
	cfg := &Config{Store: StoreConfig{BasePath: "/absolute/path/to/data"}}

	require.NoError(t, cfg.expandBasePath())

	assert.Equal(t, "/absolute/path/to/data", cfg.Store.BasePath)
}

func TestExpandCatalogDir_EmptyStaysEmpty(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandCatalogDir())

	assert.Empty(t, cfg.Catalog.DataDir)
}

func TestExpandCatalogDir_RelativePath(t *testing.T) {
	cfg := &Config{Catalog: CatalogConfig{DataDir: "relative/catalog"}}

	require.NoError(t, cfg.expandCatalogDir())

	assert.True(t, filepath.IsAbs(cfg.Catalog.DataDir))
	assert.Contains(t, cfg.Catalog.DataDir, "relative/catalog")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Env var when flag is empty.
	os.Setenv("TEST_ENV_KEY", "env-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_ENV_KEY")      //nolint:errcheck // Test cleanup

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetNumericConfigValues(t *testing.T) {
	os.Setenv("TEST_INT", "7")      //nolint:errcheck // Test setup
	os.Setenv("TEST_FLOAT", "0.5")  //nolint:errcheck // Test setup
	os.Setenv("TEST_BAD", "potato") //nolint:errcheck // Test setup
	defer func() {
		os.Unsetenv("TEST_INT")   //nolint:errcheck // Test cleanup
		os.Unsetenv("TEST_FLOAT") //nolint:errcheck // Test cleanup
		os.Unsetenv("TEST_BAD")   //nolint:errcheck // Test cleanup
	}()

	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT", 2))
	assert.Equal(t, 2, getIntConfigValue("", "MISSING", 2))
	assert.Equal(t, 2, getIntConfigValue("", "TEST_BAD", 2))

	assert.Equal(t, 0.5, getFloatConfigValue("", "TEST_FLOAT", 1))
	assert.Equal(t, 1.0, getFloatConfigValue("", "MISSING", 1))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"https://davedeals.test"}, splitList("https://davedeals.test"))
	assert.Equal(t,
		[]string{"https://a.test", "https://b.test"},
		splitList(" https://a.test , https://b.test ,"))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
DATA_PATH=/test/path
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	keys := []string{"ENV", "LOG_LEVEL", "DATA_PATH", "QUOTED_VALUE", "SINGLE_QUOTED"}
	for _, k := range keys {
		os.Unsetenv(k) //nolint:errcheck // Test cleanup
	}
	defer func() {
		for _, k := range keys {
			os.Unsetenv(k) //nolint:errcheck // Test cleanup
		}
	}()

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "/test/path", os.Getenv("DATA_PATH"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	err := loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	os.Setenv("TEST_VAR", "original-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_VAR")           //nolint:errcheck // Test cleanup

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `  KEY_WITH_SPACES  =  value with spaces  `
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	os.Unsetenv("KEY_WITH_SPACES")       //nolint:errcheck // Test cleanup
	defer os.Unsetenv("KEY_WITH_SPACES") //nolint:errcheck // Test cleanup

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}
