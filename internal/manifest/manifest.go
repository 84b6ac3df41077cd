package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Header is the fixed manifest column order.
var Header = []string{"wav_filename", "wav_filesize", "transcript"}

// Row is one manifest entry for a transcoded utterance.
type Row struct {
	WavFilename string
	WavFilesize int64
	Transcript  string
}

// Sort orders rows by WAV path so manifests are deterministic regardless of
// filesystem walk order. The sort is stable, so duplicate identifiers keep
// their relative order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WavFilename < rows[j].WavFilename
	})
}

// Write serializes rows to a UTF-8 CSV file at path. An empty row set
// produces a header-only file.
func Write(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.WavFilename, strconv.FormatInt(row.WavFilesize, 10), row.Transcript}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}
	return file.Close()
}
