package fat32

import "strings"

// ShortNameLength and ShortNameExtLength are the field widths of the 8.3
// name, in bytes.
const (
	ShortNameLength     = 8
	ShortNameExtLength  = 3
	ShortNameFullLength = ShortNameLength + ShortNameExtLength
)

// ShortName is an 8.3 name as it is stored in a File directory entry: 11
// space-padded ASCII bytes plus the two case flags that record whether the
// original name and extension were lower-case.
type ShortName struct {
	data      [11]byte
	lowerName bool
	lowerExt  bool
}

// emptyShortName is 11 spaces, the FAT convention for "no characters here".
func emptyShortName() ShortName {
	var sn ShortName
	for i := range sn.data {
		sn.data[i] = ' '
	}
	return sn
}

// ByteAt returns the idx'th raw byte of the 11-byte short name, applying the
// 0xE5-at-byte-0 substitution (§3, §4.10: a real first byte of 0xE5 would be
// mistaken for a deleted-entry marker, so it's stored as 0x05; ParseShortName
// turns a leading 0x05 back into 0xE5).
func (s ShortName) ByteAt(idx int) byte {
	if idx == 0 && s.data[0] == 0xE5 {
		return 0x05
	}
	if idx < 0 || idx >= len(s.data) {
		return 0
	}
	return s.data[idx]
}

func (s ShortName) nameLen() int {
	n := 0
	for n < ShortNameLength && !isEndMarkerByte(s.data[n]) {
		n++
	}
	return n
}

func (s ShortName) extLen() int {
	n := 0
	for n < ShortNameExtLength && !isEndMarkerByte(s.data[ShortNameLength+n]) {
		n++
	}
	return n
}

// Name returns the 8-character name part, trimmed of trailing end markers.
func (s ShortName) Name() string {
	return string(s.data[:s.nameLen()])
}

// Ext returns the 3-character extension part, trimmed of trailing end markers.
func (s ShortName) Ext() string {
	return string(s.data[ShortNameLength : ShortNameLength+s.extLen()])
}

// String renders the short name the way it would display to a user, honoring
// the lower-case flags.
func (s ShortName) String() string {
	name := s.Name()
	if s.lowerName {
		name = strings.ToLower(name)
	}
	ext := s.Ext()
	if s.lowerExt {
		ext = strings.ToLower(ext)
	}
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// CaseFlag packs the lower-case flags into the byte stored at offset 12 of a
// File directory entry: 0x08 = name lower-case, 0x10 = extension lower-case.
func (s ShortName) CaseFlag() byte {
	var flag byte
	if s.lowerName {
		flag |= 0x08
	}
	if s.lowerExt {
		flag |= 0x10
	}
	return flag
}

// Equal compares two short names by their logical name/extension text,
// ignoring case flags (mirroring the original's PartialEq, which compares
// Name()/Ext() rather than raw bytes).
func (s ShortName) Equal(other ShortName) bool {
	return s.Name() == other.Name() && s.Ext() == other.Ext()
}

func isEndMarkerByte(c byte) bool {
	return c == ' ' || c == '.' || c == 0
}

func isValidShortNameChar(c byte) bool {
	if c >= 'A' && c <= 'Z' {
		return true
	}
	if c >= 'a' && c <= 'z' {
		return true
	}
	if c >= '0' && c <= '9' {
		return true
	}
	if isEndMarkerByte(c) {
		return true
	}
	switch c {
	case '!', '@', '#', '$', '%', '^', '&', '(', ')', '{', '}':
		return true
	}
	return false
}

// caseOf reports 1 for lower-case, 2 for upper-case, 0 for case-insensitive
// characters (digits, symbols, end markers).
func caseOf(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return 1
	case c >= 'A' && c <= 'Z':
		return 2
	default:
		return 0
	}
}

// ParseShortName attempts to represent name exactly as an 8.3 short name. It
// fails ("not representable", ok=false) unless every character is a valid
// short-name character, the name contains at most one '.', the
// name/extension parts fit their slots, and case is uniform within each part
// (§4.1).
func ParseShortName(name string) (sn ShortName, ok bool) {
	if len(name) > ShortNameFullLength || len(name) == 0 {
		return ShortName{}, false
	}
	if strings.Count(name, ".") > 1 {
		return ShortName{}, false
	}

	result := emptyShortName()
	extIdx := len(name)
	nameCase := 0

	for idx := 0; idx < len(name); idx++ {
		c := name[idx]
		if idx == 0 && c == 0x05 {
			result.data[0] = 0xE5 // stored form of a real leading 0xE5
			continue
		}
		cs := caseOf(c)
		if idx > 7 || !isValidShortNameChar(c) || nameCase+cs == 3 {
			return ShortName{}, false
		}
		if isEndMarkerByte(c) {
			extIdx = idx
			break
		}
		if nameCase == 0 && cs != 0 {
			nameCase = cs
			result.lowerName = cs == 1
		}
		result.data[idx] = toUpperASCII(c)
	}

	if extIdx == 0 {
		return ShortName{}, false
	}
	if extIdx == len(name) {
		return result, true
	}

	extCase := 0
	for idx := extIdx + 1; idx < len(name); idx++ {
		c := name[idx]
		slot := idx - extIdx - 1
		cs := caseOf(c)
		if slot > 2 || !isValidShortNameChar(c) || extCase+cs == 3 {
			return ShortName{}, false
		}
		if isEndMarkerByte(c) {
			break
		}
		if extCase == 0 && cs != 0 {
			extCase = cs
			result.lowerExt = cs == 1
		}
		result.data[ShortNameLength+slot] = toUpperASCII(c)
	}
	return result, true
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// toValidShortNameChars filters raw into characters acceptable in a short
// name, dropping end markers, uppercasing letters, and substituting '_' for
// anything else.
func toValidShortNameChars(raw string) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if isEndMarkerByte(c) {
			continue
		}
		if !isValidShortNameChar(c) {
			out = append(out, '_')
			continue
		}
		out = append(out, toUpperASCII(c))
	}
	return out
}

// ConvertShortName always produces a short name, lossily if necessary: valid
// characters are kept and uppercased, invalid ones become '_', and everything
// after the 8th name character or 3rd extension character is truncated. When
// dupCount is 0 the name is suffixed with "~~"; otherwise it is suffixed with
// "~" followed by dupCount's decimal digits, descending from byte slot 7
// (§4.1). Ties between colliding long names are the caller's job — see
// assignShortName in volume.go.
func ConvertShortName(name string, dupCount int) ShortName {
	if sn, ok := ParseShortName(name); ok {
		return sn
	}

	result := emptyShortName()

	extIdx := strings.LastIndexByte(name, '.')
	namePart, extPart := name, ""
	if extIdx >= 0 {
		namePart, extPart = name[:extIdx], name[extIdx:]
	}

	nameChars := toValidShortNameChars(namePart)
	for i := 0; i < len(nameChars) && i < ShortNameLength; i++ {
		result.data[i] = nameChars[i]
	}
	extChars := toValidShortNameChars(extPart)
	for i := 0; i < len(extChars) && i < ShortNameExtLength; i++ {
		result.data[ShortNameLength+i] = extChars[i]
	}

	if dupCount <= 0 {
		result.data[6] = '~'
		result.data[7] = '~'
		return result
	}

	cur := 7
	remaining := dupCount
	for remaining > 0 {
		digit := remaining % 10
		result.data[cur] = byte(digit) + '0'
		cur--
		remaining /= 10
	}
	result.data[cur] = '~'
	return result
}

// LFNChecksum computes the checksum FAT32 stores in every LFN record
// belonging to a short name, per §4.1: seed 0, then for each of the 11 raw
// name bytes `r = rotateRight8(r) + byte` with wrapping 8-bit arithmetic.
// This walks the stored bytes directly, not the projected (0xE5-substituted)
// ones: the substitution only matters for the on-disk byte-0 convention, not
// for the checksum the original implementation computes over its in-memory
// representation.
func LFNChecksum(s ShortName) byte {
	var checksum byte
	for i := 0; i < len(s.data); i++ {
		checksum = rotateRight8(checksum) + s.data[i]
	}
	return checksum
}

func rotateRight8(r byte) byte {
	return ((r & 1) << 7) | (r >> 1)
}
