package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/cfgloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `yaml:"name"    validate:"required"`
	Timeout time.Duration `yaml:"timeout" default:"5s"`
	Store   struct {
		Host     string `yaml:"host"     validate:"required"`
		Password string `yaml:"password" mask:"true"`
	} `yaml:"store"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("DOCREPO_TEST_HOST", "db.internal")

	path := writeFile(t, `
name: docrepo
store:
  host: ${DOCREPO_TEST_HOST}
  password: secret
`)

	cfg, err := cfgloader.Load[testConfig](cfgloader.WithPath(path), cfgloader.WithSilent())
	require.NoError(t, err)

	assert.Equal(t, "docrepo", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "db.internal", cfg.Store.Host)
	assert.Equal(t, "secret", cfg.Store.Password)
}

func TestLoadFailures(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		opts    func(path string) []cfgloader.Option
	}{
		{
			name:    "missing required field",
			content: "store:\n  host: localhost\n",
		},
		{
			name:    "malformed yaml",
			content: "name: [docrepo\n",
		},
		{
			name:    "missing file",
			content: "name: docrepo\n",
			opts: func(path string) []cfgloader.Option {
				return []cfgloader.Option{cfgloader.WithPath(path + ".missing"), cfgloader.WithSilent()}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.content)
			opts := []cfgloader.Option{cfgloader.WithPath(path), cfgloader.WithSilent()}
			if tc.opts != nil {
				opts = tc.opts(path)
			}

			_, err := cfgloader.Load[testConfig](opts...)
			require.Error(t, err)
			assert.Equal(t, cfgloader.CodeInvalidConfig, errx.AsErrorX(err).Code())
		})
	}
}

func TestLoadRequiresEnvironmentWithoutPath(t *testing.T) {
	t.Setenv("ENVIRONMENT", "nowhere")

	_, err := cfgloader.Load[testConfig](
		cfgloader.WithSilent(),
		cfgloader.WithEnvFiles(filepath.Join(t.TempDir(), ".env")),
	)
	require.Error(t, err)
	assert.Equal(t, cfgloader.CodeInvalidConfig, errx.AsErrorX(err).Code())
}

func TestLoadRejectsPointerTypes(t *testing.T) {
	_, err := cfgloader.Load[*testConfig](cfgloader.WithSilent())
	require.Error(t, err)
}
