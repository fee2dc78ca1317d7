package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Usage is the on-disk footprint of the record store and its search index.
type Usage struct {
	DatabaseBytes int64 `json:"database_bytes"`
	IndexBytes    int64 `json:"index_bytes"`
}

// TotalBytes is the combined footprint.
func (u Usage) TotalBytes() int64 {
	return u.DatabaseBytes + u.IndexBytes
}

// MeasureUsage sizes the database at dbPath, including its WAL and shared
// memory files, and the index directory at indexPath. Missing paths count
// as zero.
func MeasureUsage(dbPath, indexPath string) (Usage, error) {
	var u Usage
	var err error
	if dbPath != "" {
		u.DatabaseBytes, err = pathSize(dbPath, dbPath+"-wal", dbPath+"-shm")
		if err != nil {
			return Usage{}, err
		}
	}
	u.IndexBytes, err = pathSize(indexPath)
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

// pathSize sums the sizes of files and directory trees, skipping empty and
// missing paths.
func pathSize(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if !info.IsDir() {
			total += info.Size()
			continue
		}
		err = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			total += fi.Size()
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}
