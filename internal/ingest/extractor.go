package ingest

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
)

// tableSuffix identifies the tabular report file inside the archive.
const tableSuffix = ".txt"

// Extract locates the report table inside the zip archive and returns its
// decompressed text. The first entry whose name ends in the table suffix
// (case-insensitive) wins; a missing entry means the source format changed
// and the whole run must abort.
func Extract(archive []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", &ExtractionError{Suffix: tableSuffix, Err: err}
	}

	for _, entry := range zr.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), tableSuffix) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return "", &ExtractionError{Suffix: tableSuffix, Err: err}
		}
		defer rc.Close()

		text, err := io.ReadAll(rc)
		if err != nil {
			return "", &ExtractionError{Suffix: tableSuffix, Err: err}
		}
		return string(text), nil
	}

	return "", &ExtractionError{Suffix: tableSuffix, Entries: len(zr.File)}
}
