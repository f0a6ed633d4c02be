// Package conf provides .env-backed configuration bindings for a mindi
// container.
package conf

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/djosix/mindi"
)

// Config names the .env files to load. An empty list loads "./.env".
type Config struct {
	Files []string
}

// Env reads environment values after the configured .env files have been
// loaded. Values already present in the process environment win over file
// contents, matching godotenv's behaviour.
type Env struct{}

// New loads the configured .env files and returns an Env handle. Missing
// files are not an error; production environments often rely on real
// environment variables alone.
func New(config Config) (*Env, error) {
	files := config.Files
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return &Env{}, nil
}

// Get returns the value of key, or fallback when unset or empty.
func (e *Env) Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetInt returns the integer value of key, or fallback when unset or
// malformed.
func (e *Env) GetInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

// GetBool returns the boolean value of key, or fallback when unset or
// malformed.
func (e *Env) GetBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// Register binds *Env into c, loading the given .env files on first
// resolution. If no [Config] is bound yet, one naming files is bound
// alongside it.
func Register(c *mindi.Container, files ...string) error {
	if !c.Bound(mindi.For[Config]()) {
		err := c.Bind(mindi.For[Config](),
			mindi.WithProvider(mindi.Value(Config{Files: files})))
		if err != nil {
			return err
		}
	}
	return c.Bind(mindi.For[*Env](),
		mindi.WithProvider(New),
		mindi.WithParams(mindi.Inject("config", mindi.For[Config]())),
	)
}
