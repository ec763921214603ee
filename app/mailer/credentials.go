package mailer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/selvaganesh19/mailform/core/logger"
)

// ErrCredentialsMissing indicates no OAuth client credentials are available.
var ErrCredentialsMissing = errors.New("mailer: credentials.json not found and no GOOGLE_CREDENTIALS_BASE64 set")

// Config holds Gmail delivery settings. Credential material can be supplied
// as base64 env vars for hosts without a persistent filesystem; the files are
// materialized on bootstrap.
type Config struct {
	CredentialsPath   string `yaml:"credentials_path" envconfig:"GMAIL_CREDENTIALS_PATH"`
	TokenPath         string `yaml:"token_path" envconfig:"GMAIL_TOKEN_PATH"`
	CredentialsBase64 string `yaml:"-" envconfig:"GOOGLE_CREDENTIALS_BASE64"`
	TokenBase64       string `yaml:"-" envconfig:"TOKEN_JSON_BASE64"`
}

func (c *Config) applyDefaults() {
	if c.CredentialsPath == "" {
		c.CredentialsPath = "credentials.json"
	}
	if c.TokenPath == "" {
		c.TokenPath = "token.json"
	}
}

// EnsureCredentialFiles writes credentials.json and token.json from their
// base64 env counterparts when the files do not exist yet. Existing files
// always win.
func EnsureCredentialFiles(cfg Config) error {
	cfg.applyDefaults()

	if err := materialize(cfg.CredentialsPath, cfg.CredentialsBase64, "credentials"); err != nil {
		return err
	}
	return materialize(cfg.TokenPath, cfg.TokenBase64, "token")
}

func materialize(path, encoded, kind string) error {
	if encoded == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("mailer: decode %s env: %w", kind, err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("mailer: write %s: %w", kind, err)
	}
	logger.Info(logger.Background(), "mail", "credentials.materialized",
		slog.String("file", path),
	)
	return nil
}
