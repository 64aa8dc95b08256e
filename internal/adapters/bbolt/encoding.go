// Binary encoding for kind table blobs.
//
// Format v1 (little-endian):
//
//	version:   uint8 (1)
//	count:     uint16
//	per entry, sorted by code:
//	  codeLen: uint8
//	  code:    [codeLen]byte
//	  nameLen: uint16
//	  name:    [nameLen]byte
package bbolt

import (
	"encoding/binary"
	"fmt"
	"sort"
)

const kindsFormatV1 = 1

// encodeKinds encodes a kind table. Codes are sorted for deterministic output.
// A single buffer is pre-allocated to avoid repeated growth.
func encodeKinds(kinds map[string]string) ([]byte, error) {
	if len(kinds) > 65535 {
		return nil, fmt.Errorf("too many kinds: %d", len(kinds))
	}

	totalSize := 1 + 2
	codes := make([]string, 0, len(kinds))
	for code, name := range kinds {
		if len(code) > 255 {
			return nil, fmt.Errorf("kind code too long: %d bytes", len(code))
		}
		if len(name) > 65535 {
			return nil, fmt.Errorf("kind name too long: %d bytes", len(name))
		}
		totalSize += 1 + len(code) + 2 + len(name)
		codes = append(codes, code)
	}
	sort.Strings(codes)

	buf := make([]byte, totalSize)
	buf[0] = kindsFormatV1
	binary.LittleEndian.PutUint16(buf[1:], uint16(len(codes)))
	offset := 3

	for _, code := range codes {
		name := kinds[code]
		buf[offset] = uint8(len(code))
		offset++
		offset += copy(buf[offset:], code)
		binary.LittleEndian.PutUint16(buf[offset:], uint16(len(name)))
		offset += 2
		offset += copy(buf[offset:], name)
	}
	return buf, nil
}

// decodeKinds decodes a kind table blob.
// Every read is bounds-checked to avoid panics on corrupt data.
func decodeKinds(data []byte) (map[string]string, error) {
	if len(data) < 3 {
		return nil, fmt.Errorf("kind table too short: %d bytes", len(data))
	}
	if data[0] != kindsFormatV1 {
		return nil, fmt.Errorf("unknown kind table format %d", data[0])
	}
	count := int(binary.LittleEndian.Uint16(data[1:]))
	offset := 3

	kinds := make(map[string]string, count)
	for i := 0; i < count; i++ {
		if offset+1 > len(data) {
			return nil, fmt.Errorf("truncated at entry %d code length (offset %d)", i, offset)
		}
		codeLen := int(data[offset])
		offset++
		if offset+codeLen > len(data) {
			return nil, fmt.Errorf("truncated at entry %d code (offset %d, need %d)", i, offset, codeLen)
		}
		code := string(data[offset : offset+codeLen])
		offset += codeLen

		if offset+2 > len(data) {
			return nil, fmt.Errorf("truncated at entry %d name length (offset %d)", i, offset)
		}
		nameLen := int(binary.LittleEndian.Uint16(data[offset:]))
		offset += 2
		if offset+nameLen > len(data) {
			return nil, fmt.Errorf("truncated at entry %d name (offset %d, need %d)", i, offset, nameLen)
		}
		kinds[code] = string(data[offset : offset+nameLen])
		offset += nameLen
	}
	return kinds, nil
}
