package attachments

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes uploaded files into a local working directory. Files are kept
// for the lifetime of the process; attachment paths referenced by scheduled
// mails must stay readable until the mail fires.
type Store struct {
	dir string
}

// Config selects where downloaded attachments land. An empty Dir falls back
// to a per-run temporary directory.
type Config struct {
	Dir string `yaml:"dir" envconfig:"ATTACHMENTS_DIR"`
}

// New prepares the attachment directory.
func New(cfg Config) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "mailform-attachments-")
		if err != nil {
			return nil, fmt.Errorf("attachments: temp dir: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("attachments: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are saved into.
func (s *Store) Dir() string {
	return s.dir
}

// Save streams r into a file named after the upload. The name is reduced to
// its base component so uploads cannot escape the directory.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("attachments: invalid file name %q", name)
	}
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("attachments: create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("attachments: write %s: %w", path, err)
	}
	return path, nil
}
