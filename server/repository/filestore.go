package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ponyo877/roomchat/server/domain"
	"github.com/ponyo877/roomchat/server/usecase"
	"github.com/spf13/afero"
)

// FileStore keeps each room's uploads in a directory named after the room.
type FileStore struct {
	fs afero.Fs
}

// NewFileStore roots the store at dir on the OS filesystem.
func NewFileStore(dir string) (usecase.FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create rooms directory %s: %w", dir, err)
	}
	return NewFileStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

func NewFileStoreFs(afs afero.Fs) *FileStore {
	return &FileStore{fs: afs}
}

func roomDir(room string) string {
	return filepath.Join(string(filepath.Separator), room)
}

func (s *FileStore) Provision(room string) error {
	if err := s.fs.MkdirAll(roomDir(room), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for room '%s': %w", room, err)
	}
	return nil
}

func (s *FileStore) Purge(room string) error {
	if err := s.fs.RemoveAll(roomDir(room)); err != nil {
		return fmt.Errorf("failed to remove directory for room '%s': %w", room, err)
	}
	return nil
}

// Save writes data into an existing room directory. A missing directory is
// an error; the directory is owned by the room lifecycle.
func (s *FileStore) Save(room, name string, data []byte) error {
	dir := roomDir(room)
	info, err := s.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("room '%s': %w", room, domain.ErrRoomNotFound)
	}
	if err := afero.WriteFile(s.fs, filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s' in room '%s': %w", name, room, err)
	}
	return nil
}

func (s *FileStore) Load(room, name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(roomDir(room), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file '%s' in room '%s': %w", name, room, domain.ErrFileNotFound)
		}
		return nil, fmt.Errorf("failed to read file '%s' in room '%s': %w", name, room, err)
	}
	return data, nil
}

// List returns regular files in the room directory sorted by name. A room
// without a directory has no files.
func (s *FileStore) List(room string) ([]domain.File, error) {
	entries, err := afero.ReadDir(s.fs, roomDir(room))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.File{}, nil
		}
		return nil, fmt.Errorf("failed to list files in room '%s': %w", room, err)
	}
	files := make([]domain.File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, domain.NewFile(room, e.Name(), e.Size(), e.ModTime()))
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
