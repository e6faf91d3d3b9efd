package csi

import (
	"strconv"
	"strings"
)

// ParseCellSize parses a reply to CellSizeQuery.
// Expected format: ESC [ 6 ; height ; width t
// Any pair of positive integers is accepted.
func ParseCellSize(response string) (width, height int, ok bool) {
	fields := strings.FieldsFunc(response, func(r rune) bool {
		return r == ';' || r == 't'
	})
	if len(fields) < 3 {
		return 0, 0, false
	}

	h, err := strconv.Atoi(fields[1])
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(fields[2])
	if err != nil || w <= 0 {
		return 0, 0, false
	}

	return w, h, true
}

// HasSixel reports whether a device attributes reply advertises sixel graphics (attribute 4)
func HasSixel(response string) bool {
	return strings.Contains(response, ";4;") || strings.Contains(response, ";4c")
}

// HasGraphicsOK reports whether a reply contains a graphics protocol acknowledgement
func HasGraphicsOK(response string) bool {
	return strings.Contains(response, string(graphicsOK))
}
