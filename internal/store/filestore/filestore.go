package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/phaseline/internal/model"
)

// File-backed phase lists. One file, human-readable, JSON or YAML by
// extension. No locking; a local single-user tool.

// Format is the encoding of a phase file.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the format from the file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// ErrEmptyPath is returned when no phase file was given.
var ErrEmptyPath = errors.New("no phase file given")

func Load(path string) ([]model.Item, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()
	items, err := Decode(f, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// Decode reads a list of phases. An empty document is an empty list.
func Decode(r io.Reader, format Format) ([]model.Item, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	items := []model.Item{}
	if len(bytes.TrimSpace(b)) == 0 {
		return items, nil
	}
	switch format {
	case YAML:
		if err := yaml.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	}
	return items, nil
}

// Save writes items back in the format of path, replacing the file
// atomically so a watcher never sees a half-written list.
func Save(path string, items []model.Item) error {
	if path == "" {
		return ErrEmptyPath
	}
	var buf bytes.Buffer
	if err := Encode(&buf, FormatFor(path), items); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Encode writes any list (items or laned items) in the given format.
func Encode[T any](w io.Writer, format Format, items []T) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
		return enc.Close()
	default:
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		b = append(b, '\n')
		_, err = w.Write(b)
		return err
	}
}
