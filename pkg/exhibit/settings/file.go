package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oae-widgets/exhibit-go/pkg/exhibit/models"
	"gopkg.in/yaml.v3"
)

// FileStore keeps the settings of all widgets in one YAML file, keyed by
// widget id. The file is re-read on every Load so edits made by other
// processes are picked up.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the YAML file at path. The file is
// created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the stored settings of widgetID, or ErrNotFound when the file
// has no entry for it.
func (s *FileStore) Load(ctx context.Context, widgetID string) (models.Settings, error) {
	if err := ctx.Err(); err != nil {
		return models.Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return models.Settings{}, err
	}
	v, ok := all[widgetID]
	if !ok {
		return models.Settings{}, ErrNotFound
	}
	return v, nil
}

// Save replaces the settings of widgetID and rewrites the whole file.
func (s *FileStore) Save(ctx context.Context, widgetID string, v models.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}
	all[widgetID] = v

	data, err := yaml.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) readAll() (map[string]models.Settings, error) {
	all := make(map[string]models.Settings)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return all, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", s.path, err)
	}
	if all == nil {
		all = make(map[string]models.Settings)
	}
	return all, nil
}
