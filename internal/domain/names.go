package domain

import (
	"fmt"
	"regexp"
)

const (
	MaxFolderNameLength = 120
	MaxNoteNameLength   = 60
	MaxRoomNameLength   = 32

	DefaultNotePrefix       = "Note"
	DefaultCanvasBackground = "#FBFCFF"
)

var (
	folderNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_ -]+$`)
	canvasColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// IsFolderName reports whether name may be used for a folder.
func IsFolderName(name string) bool {
	return folderNamePattern.MatchString(name)
}

// IsCanvasColor reports whether s is a #RRGGBB color.
func IsCanvasColor(s string) bool {
	return canvasColorPattern.MatchString(s)
}

// NextNoteName returns the lowest unused "Note<N>" label, probing from 1.
func NextNoteName(existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s%d", DefaultNotePrefix, n)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
