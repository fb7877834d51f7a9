package shell

import (
	"fmt"
	"strings"

	"github.com/arnewolf/gofat12"
	"github.com/arnewolf/gofat12/geometry"
)

func formatDirListing(entries []gofat12.DirectoryEntry) string {
	if len(entries) == 0 {
		return "(empty)\n"
	}

	var b strings.Builder
	for _, e := range entries {
		kind := "-"
		if e.IsDirectory() {
			kind = "d"
		}
		fmt.Fprintf(&b, "%s  %10d  %s\n", kind, e.FileSize, e.Name)
	}
	return b.String()
}

func formatTimestamp(t gofat12.Timestamp) string {
	if !t.Valid {
		return fmt.Sprintf("invalid(%04d-%02d-%02d)", t.Year, t.Month, t.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

func formatFileInfo(e *gofat12.DirectoryEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name:       %s\n", e.Name)
	fmt.Fprintf(&b, "directory:  %v\n", e.IsDirectory())
	fmt.Fprintf(&b, "size:       %d\n", e.FileSize)
	fmt.Fprintf(&b, "first clus: %d\n", e.FirstCluster)
	fmt.Fprintf(&b, "attributes: 0x%02X\n", e.AttributeFlags)
	fmt.Fprintf(&b, "created:    %s\n", formatTimestamp(e.CreatedAt))
	fmt.Fprintf(&b, "modified:   %s\n", formatTimestamp(e.ModifiedAt))
	fmt.Fprintf(&b, "accessed:   %s\n", formatTimestamp(e.AccessedAt))
	return b.String()
}

func formatRootInfo(boot *gofat12.BootSector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "OEM name:            %s\n", boot.OEMName)
	fmt.Fprintf(&b, "volume label:        %s\n", boot.VolumeLabel)
	fmt.Fprintf(&b, "filesystem type:     %s\n", boot.FileSystemType)
	fmt.Fprintf(&b, "bytes/sector:        %d\n", boot.BytesPerSector)
	fmt.Fprintf(&b, "sectors/cluster:     %d\n", boot.SectorsPerCluster)
	fmt.Fprintf(&b, "reserved sectors:    %d\n", boot.ReservedSectors)
	fmt.Fprintf(&b, "FAT count:           %d\n", boot.FATCount)
	fmt.Fprintf(&b, "max root entries:    %d\n", boot.MaxRootEntries)
	fmt.Fprintf(&b, "total sectors:       %d\n", boot.TotalSectors)
	fmt.Fprintf(&b, "sectors/FAT:         %d\n", boot.FATSizeSectors)
	fmt.Fprintf(&b, "total clusters:      %d\n", boot.TotalClusters)

	capacity := int64(boot.TotalSectors) * int64(boot.BytesPerSector)
	if g, ok := geometry.LookupByCapacity(capacity); ok {
		fmt.Fprintf(&b, "known geometry:      %s (%s)\n", g.Name, g.Slug)
	} else {
		fmt.Fprintf(&b, "known geometry:      (no match for %d bytes)\n", capacity)
	}
	return b.String()
}

func formatSpaceInfo(info gofat12.SpaceInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "free:     %d\n", info.Free)
	fmt.Fprintf(&b, "used:     %d\n", info.Used)
	fmt.Fprintf(&b, "reserved: %d\n", info.Reserved)
	fmt.Fprintf(&b, "bad:      %d\n", info.Bad)
	fmt.Fprintf(&b, "terminal: %d\n", info.Terminal)
	fmt.Fprintf(&b, "cluster size: %d bytes\n", info.ClusterSz)
	return b.String()
}

const helpText = `Available commands:
  dir                 list the current directory
  cd <dir>            change the current directory
  pwd                 print the current directory
  cat <file>          print a file's contents
  get <file>          copy a file to the host filesystem
  zip <f1> <f2> <out> line-interleave two files into out
  rootinfo            show boot-sector geometry
  spaceinfo           show FAT cluster-class counts
  fileinfo <name>     show attributes and timestamps for name
  tree                recursively list the directory tree
  help                show this text
  exit                leave the shell
`
