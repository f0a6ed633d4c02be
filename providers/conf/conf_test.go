package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/djosix/mindi"
	"github.com/djosix/mindi/providers/conf"
)

func TestRegisterLoadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	assert.NoError(t, os.WriteFile(file, []byte("CONF_TEST_NAME=mindi\nCONF_TEST_PORT=8080\nCONF_TEST_DEBUG=true\n"), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"CONF_TEST_NAME", "CONF_TEST_PORT", "CONF_TEST_DEBUG"} {
			_ = os.Unsetenv(key)
		}
	})

	di := mindi.New()
	assert.NoError(t, conf.Register(di, file))

	env, err := mindi.Resolve[*conf.Env](di)
	assert.NoError(t, err)
	assert.Equal(t, "mindi", env.Get("CONF_TEST_NAME", "fallback"))
	assert.Equal(t, 8080, env.GetInt("CONF_TEST_PORT", 0))
	assert.True(t, env.GetBool("CONF_TEST_DEBUG", false))
}

func TestFallbacks(t *testing.T) {
	env, err := conf.New(conf.Config{Files: []string{filepath.Join(t.TempDir(), "absent.env")}})
	assert.NoError(t, err)
	assert.Equal(t, "fallback", env.Get("CONF_TEST_MISSING", "fallback"))
	assert.Equal(t, 42, env.GetInt("CONF_TEST_MISSING", 42))
	assert.True(t, env.GetBool("CONF_TEST_MISSING", true))
}
