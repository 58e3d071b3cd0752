package domain

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxRoomNameLen = 64
	maxFileNameLen = 128
	maxUsernameLen = 32
)

// Room names double as directory names under the rooms root and appear in
// comma separated listings.
func ValidateRoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyRoomName
	}
	if name != strings.TrimSpace(name) || utf8.RuneCountInString(name) > maxRoomNameLen {
		return ErrInvalidRoomName
	}
	if name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\,:`) || hasControl(name) {
		return ErrInvalidRoomName
	}
	return nil
}

func ValidateFileName(name string, allowed []string) error {
	if name == "" || name != strings.TrimSpace(name) || utf8.RuneCountInString(name) > maxFileNameLen {
		return ErrInvalidFileName
	}
	if strings.HasPrefix(name, ".") || strings.Contains(name, "..") || strings.ContainsAny(name, `/\,:`) || hasControl(name) {
		return ErrInvalidFileName
	}
	if filepath.Base(name) != name {
		return ErrInvalidFileName
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return ErrExtension
	}
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return ErrExtension
}

func ValidateUsername(name string) error {
	if name == "" || utf8.RuneCountInString(name) > maxUsernameLen {
		return ErrInvalidUsername
	}
	for _, r := range name {
		if r == ':' || r == ',' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return ErrInvalidUsername
		}
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
