package cli

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/funcpod/funcpod/utils"
)

func TestReadSourcesAsTarFromDirectory(t *testing.T) {
	src := filepath.Join(t.TempDir(), "hello")
	utils.AssertNil(t, os.MkdirAll(src, 0755))
	utils.AssertNil(t, os.WriteFile(filepath.Join(src, "main.py"), []byte("print('hi')"), 0644))

	content, err := readSourcesAsTar(src)
	utils.AssertNil(t, err)

	// the result is a readable archive containing the source
	found := false
	tr := tar.NewReader(bytes.NewReader(content))
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		utils.AssertNil(t, err)
		if header.Name == "hello/main.py" {
			found = true
		}
	}
	utils.AssertTrueMsg(t, found, "source file missing from archive")
}

func TestReadSourcesAsTarPassesThroughArchives(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "code.tar")
	utils.AssertNil(t, os.WriteFile(archive, []byte("pre-built archive"), 0644))

	content, err := readSourcesAsTar(archive)
	utils.AssertNil(t, err)
	utils.AssertEquals(t, "pre-built archive", string(content))
}

func TestReadSourcesAsTarMissingSource(t *testing.T) {
	_, err := readSourcesAsTar(filepath.Join(t.TempDir(), "nope"))
	utils.AssertNonNil(t, err)
}
