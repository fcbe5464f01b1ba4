package main

import (
	"os"
	"path/filepath"
)

func localBaseName(p string) string {
	return filepath.Base(filepath.Clean(p))
}

// statLocalFolder walks dir to report the file count and total byte
// size RequestUploadFolder needs up front, before the server allocates
// a reference number.
func statLocalFolder(dir string) (count, total uint32, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		count++
		total += uint32(info.Size())
		return nil
	})
	return count, total, err
}
