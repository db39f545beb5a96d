package utils

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Tar archives the file or directory tree rooted at src into w. Entry names
// are relative to the parent of src, so untaring restores the tree under its
// own top-level name. Only regular files are archived.
func Tar(src string, w io.Writer) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("unable to tar %s: %v", src, err)
	}

	tw := tar.NewWriter(w)
	defer tw.Close()

	base := filepath.Dir(src)

	return filepath.Walk(src, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		header, err := tar.FileInfoHeader(fi, fi.Name())
		if err != nil {
			return err
		}

		// entry names are relative to the archive root
		rel := strings.TrimPrefix(file, base)
		header.Name = strings.TrimPrefix(rel, string(filepath.Separator))

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
}
