// Package geometry holds a small table of well-known floppy disk geometries,
// consulted only for diagnostic labeling; it never influences how an image is
// parsed.
package geometry

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// Geometry describes one named, physical floppy disk format.
//
// https://en.wikipedia.org/wiki/List_of_floppy_disk_formats
type Geometry struct {
	Slug            string `csv:"slug"`
	Name            string `csv:"name"`
	CapacityBytes   int64  `csv:"capacity_bytes"`
	BytesPerSector  uint   `csv:"bytes_per_sector"`
	SectorsPerTrack uint   `csv:"sectors_per_track"`
	Heads           uint   `csv:"heads"`
	Tracks          uint   `csv:"tracks"`
}

//go:embed floppy-geometries.csv
var rawCSV string

var byCapacity = map[int64]Geometry{}

func init() {
	reader := strings.NewReader(rawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Geometry) error {
		if _, exists := byCapacity[row.CapacityBytes]; exists {
			return fmt.Errorf("duplicate geometry for capacity %d bytes (slug %q)", row.CapacityBytes, row.Slug)
		}
		byCapacity[row.CapacityBytes] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// LookupByCapacity returns the known geometry whose capacity matches
// totalBytes exactly. The second return value is false if no known geometry
// matches; this is never an error, only the absence of a friendly label.
func LookupByCapacity(totalBytes int64) (Geometry, bool) {
	g, ok := byCapacity[totalBytes]
	return g, ok
}
