package onestore

import (
	"encoding/binary"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"
)

// DecodeUTF16 converts little-endian UTF-16 bytes (no BOM) to a string,
// stripping trailing NULs. Odd trailing bytes are dropped.
func DecodeUTF16(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, binary.LittleEndian.Uint16(b[i:]))
	}
	for len(units) > 0 && units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	}
	return string(utf16.Decode(units))
}

// filetimeEpochDelta is the number of 100ns intervals between 1601-01-01 and
// the Unix epoch.
const filetimeEpochDelta = 116444736000000000

// FiletimeToTime converts a Windows FILETIME (100ns intervals since
// 1601-01-01 UTC).
func FiletimeToTime(ft uint64) time.Time {
	ns := (int64(ft) - filetimeEpochDelta) * 100
	return time.Unix(0, ns).UTC()
}

// Time32ToTime converts a Time32 value (seconds since 1980-01-01 UTC).
func Time32ToTime(t32 uint32) time.Time {
	start := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	return start.Add(time.Duration(t32) * time.Second)
}

// HalfInchToPixels converts a half-inch measurement to pixels at 96 DPI.
func HalfInchToPixels(halfInches float32) int {
	return int(halfInches * 48)
}

var urlPattern = regexp.MustCompile(`(?i)(?:https?://|mailto:|onenote:)[^\s<>"']+`)

// ExtractURLs returns the http/https/mailto/onenote URLs found in free text,
// trailing punctuation trimmed, first occurrence order, de-duplicated.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	var urls []string
	seen := make(map[string]struct{})
	for _, m := range matches {
		url := strings.TrimRight(m, ")].,;:!?\"'、。")
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls
}
