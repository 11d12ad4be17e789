package main

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// writeOutput writes the rendered document to stdout, or to path when one is
// given. A .gz suffix selects gzip compression so block maps for very large
// images can ship compressed alongside them.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if _, err := w.Write(data); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
