package utils

import (
	"archive/tar"
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestStreamWriterFlushesBufferedSinks(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriterSize(&buf, 1024)
	s := NewStreamWriter(bw)

	s.WriteString("progress")
	AssertEquals(t, "", buf.String())

	s.Flush()
	AssertEquals(t, "progress", buf.String())
}

func TestStreamWriterOnPlainSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewStreamWriter(&buf)

	s.WriteString("progress")
	s.Flush()
	AssertEquals(t, "progress", buf.String())
}

func TestTarDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "code")
	if err := os.MkdirAll(filepath.Join(src, "lib"), 0755); err != nil {
		t.Fatal(err)
	}
	AssertNil(t, os.WriteFile(filepath.Join(src, "main.py"), []byte("print('hi')"), 0644))
	AssertNil(t, os.WriteFile(filepath.Join(src, "lib", "util.py"), []byte("pass"), 0644))

	var buf bytes.Buffer
	AssertNil(t, Tar(src, &buf))

	names := make(map[string]bool)
	tr := tar.NewReader(&buf)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		AssertNil(t, err)
		names[header.Name] = true
	}
	AssertTrue(t, names["code/main.py"])
	AssertTrue(t, names["code/lib/util.py"])
}

func TestTarMissingSource(t *testing.T) {
	var buf bytes.Buffer
	AssertNonNil(t, Tar(filepath.Join(t.TempDir(), "nope"), &buf))
}
