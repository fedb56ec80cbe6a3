package entities

import (
	"io/fs"
	"strings"
)

// EntryKind is the filesystem node type seen during traversal.
type EntryKind int

const (
	EntryDirectory EntryKind = iota
	EntryFile
	EntryOther
)

func (k EntryKind) String() string {
	switch k {
	case EntryDirectory:
		return "directory"
	case EntryFile:
		return "file"
	default:
		return "other"
	}
}

// DirectoryEntry is a node visited while walking a tree.
type DirectoryEntry struct {
	Kind    EntryKind
	RelPath string
}

// KindOf classifies a file mode. Symlinks, devices, pipes and sockets are EntryOther.
func KindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsDir():
		return EntryDirectory
	case mode.IsRegular():
		return EntryFile
	default:
		return EntryOther
	}
}

// IsHidden reports whether name starts with the hidden marker. An empty marker hides nothing.
func IsHidden(name, marker string) bool {
	return marker != "" && strings.HasPrefix(name, marker)
}
