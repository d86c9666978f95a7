// Package csm provides reading functionality for Chasm: The Rift CSM.BIN
// resource archives.
//
// Layout (little-endian):
//
//	"CSid"      magic
//	u16         entry count
//	entry[n]    u8 name length, [12]byte name, u32 size, u32 offset
//	...         file data at absolute offsets
package csm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

const (
	magic      = "CSid"
	headerSize = 6
	entrySize  = 21
	nameSize   = 12
)

// Archive errors.
var (
	ErrInvalidMagic   = errors.New("invalid CSM magic")
	ErrTruncatedTable = errors.New("truncated CSM file table")
	ErrFileNotFound   = errors.New("file not found in archive")
)

// Archive represents an opened CSM archive. Reads use ReadAt and are safe
// for concurrent use.
type Archive struct {
	r        io.ReaderAt
	closer   io.Closer
	size     int64
	entries  []*Entry
	fileList map[string]*Entry
}

// Entry represents a file entry in the archive.
type Entry struct {
	Name   string // As stored, e.g. "HERO.CAR"
	Size   uint32
	Offset uint32
}

// Open opens a CSM archive for reading.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	archive, err := NewReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	archive.closer = file
	return archive, nil
}

// NewReader reads the file table of an archive of the given size from r.
func NewReader(r io.ReaderAt, size int64) (*Archive, error) {
	a := &Archive{
		r:        r,
		size:     size,
		fileList: make(map[string]*Entry),
	}
	if err := a.readFileTable(); err != nil {
		return nil, fmt.Errorf("reading file table: %w", err)
	}
	return a, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *Archive) readFileTable() error {
	var hdr [headerSize]byte
	if _, err := a.r.ReadAt(hdr[:], 0); err != nil {
		return fmt.Errorf("%w: header: %v", ErrTruncatedTable, err)
	}
	if string(hdr[:4]) != magic {
		return fmt.Errorf("%w: %q", ErrInvalidMagic, hdr[:4])
	}

	count := int(binary.LittleEndian.Uint16(hdr[4:]))
	table := make([]byte, count*entrySize)
	if _, err := a.r.ReadAt(table, headerSize); err != nil {
		return fmt.Errorf("%w: %d entries: %v", ErrTruncatedTable, count, err)
	}

	a.entries = make([]*Entry, 0, count)
	for i := 0; i < count; i++ {
		rec := table[i*entrySize:]
		nameLen := min(int(rec[0]), nameSize)
		entry := &Entry{
			Name:   string(rec[1 : 1+nameLen]),
			Size:   binary.LittleEndian.Uint32(rec[13:]),
			Offset: binary.LittleEndian.Uint32(rec[17:]),
		}
		if int64(entry.Offset)+int64(entry.Size) > a.size {
			return fmt.Errorf("%w: %s extends past end of archive", ErrTruncatedTable, entry.Name)
		}
		a.entries = append(a.entries, entry)
		a.fileList[normalizeName(entry.Name)] = entry
	}
	return nil
}

// List returns all file names in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		result = append(result, e.Name)
	}
	slices.Sort(result)
	return result
}

// Entries returns the entries in table order.
func (a *Archive) Entries() []*Entry {
	return a.entries
}

// Contains checks if a file exists. Names are case-insensitive.
func (a *Archive) Contains(name string) bool {
	_, ok := a.fileList[normalizeName(name)]
	return ok
}

// Read reads a file from the archive.
func (a *Archive) Read(name string) ([]byte, error) {
	entry, ok := a.fileList[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	data := make([]byte, entry.Size)
	if _, err := a.r.ReadAt(data, int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
	}
	return data, nil
}

// normalizeName drops any directory prefix and folds case.
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}
