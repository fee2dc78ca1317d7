package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/recordid"
	"github.com/hyperjump/keepsake/internal/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// IngestFile reads a record from an inbox file and stores it under an ID
// derived from the file's absolute path, so editing the file updates the same
// record. If allowedExts is non-empty, the file's extension must be in the
// list (case-insensitive). A file whose content matches the stored record is
// skipped and only re-indexed.
func (s *Service) IngestFile(ctx context.Context, path string, allowedExts []string) error {
	s.logger.Debug("ingesting inbox file", zap.String("path", path))
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}

	in, err := readInput(absPath)
	if err != nil {
		return err
	}
	in.ID = recordid.FromPath(absPath)
	if in.Title == "" {
		in.Title = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
	}
	in.Normalize()

	if existing, getErr := s.storage.GetRecord(ctx, in.ID); getErr == nil && sameInput(existing, in) {
		_ = s.index.Index(ctx, existing)
		s.logger.Debug("skipping unchanged inbox file", zap.String("path", absPath))
		return nil
	}
	if _, err := s.Upsert(ctx, in); err != nil {
		return fmt.Errorf("ingest %s: %w", absPath, err)
	}
	s.logger.Debug("inbox file ingested", zap.String("path", absPath), zap.String("id", in.ID))
	return nil
}

// IngestDirectory walks dir recursively and ingests each regular file whose
// extension is in allowedExts (all files when empty). Files that fail to
// ingest are logged and skipped. Returns the number of files ingested.
func (s *Service) IngestDirectory(ctx context.Context, dir string, allowedExts []string) (int, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	n := 0
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if len(allowedExts) > 0 && !extensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		if ingestErr := s.IngestFile(ctx, path, allowedExts); ingestErr != nil {
			s.logger.Warn("failed to ingest inbox file", zap.String("path", path), zap.Error(ingestErr))
			return nil
		}
		n++
		return nil
	})
	return n, err
}

// RemoveFile deletes the record ingested from path. A path that never
// produced a record is not an error.
func (s *Service) RemoveFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	err = s.Delete(ctx, recordid.FromPath(absPath))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func readInput(path string) (*models.RecordInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var in models.RecordInput
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &in)
	default:
		err = json.Unmarshal(data, &in)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &in, nil
}

func sameInput(rec *models.Record, in *models.RecordInput) bool {
	return rec.Title == in.Title &&
		rec.Caption == in.Caption &&
		rec.ImageCount == in.ImageCount &&
		rec.Date == in.Date &&
		rec.Location == in.Location &&
		slices.Equal(rec.Tags, in.Tags)
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
