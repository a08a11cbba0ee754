package cli

import (
	"encoding/binary"
	"fmt"
)

// AppSegment is a raw JPEG application marker segment (APPn, 0xE0..0xEF)
// preserved verbatim across a load/edit/save round trip so that embedded
// EXIF, XMP, and ICC payloads survive an edit instead of being silently
// dropped by re-encoding.
type AppSegment struct {
	Marker  byte
	Payload []byte
}

// parseJPEGAppSegments scans a JPEG's marker stream and returns every APPn
// segment's raw payload, in file order. Scanning stops at the first
// start-of-scan marker, since no APPn segment can legally follow it.
func parseJPEGAppSegments(data []byte) ([]AppSegment, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, fmt.Errorf("not a JPEG (missing SOI)")
	}
	var segs []AppSegment
	i := 2
	for i+2 <= len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA {
			break
		}
		if marker == 0xD8 || marker == 0xD9 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		if i+4 > len(data) {
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if segLen < 2 {
			i += 2
			continue
		}
		payloadEnd := i + 2 + segLen
		if payloadEnd > len(data) {
			break
		}
		if marker >= 0xE0 && marker <= 0xEF {
			payload := make([]byte, segLen-2)
			copy(payload, data[i+4:payloadEnd])
			segs = append(segs, AppSegment{Marker: marker, Payload: payload})
		}
		i = payloadEnd
	}
	return segs, nil
}

// insertAppSegmentsIntoJPEG returns a copy of data with segs spliced in
// right after the SOI marker, replacing whatever run of APPn segments (if
// any) the encoder already put there.
func insertAppSegmentsIntoJPEG(data []byte, segs []AppSegment) ([]byte, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return nil, fmt.Errorf("not a JPEG (missing SOI)")
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		if marker < 0xE0 || marker > 0xEF {
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if segLen < 2 || i+2+segLen > len(data) {
			break
		}
		i += 2 + segLen
	}
	rest := data[i:]

	out := make([]byte, 0, len(data)+16*len(segs))
	out = append(out, data[0], data[1])
	for _, seg := range segs {
		segLen := len(seg.Payload) + 2
		out = append(out, 0xFF, seg.Marker, byte(segLen>>8), byte(segLen&0xFF))
		out = append(out, seg.Payload...)
	}
	out = append(out, rest...)
	return out, nil
}

// rewriteExifOrientationToOne mutates an APP1 Exif payload in place so its
// IFD0 Orientation tag (0x0112), if present, reads 1 — used when saving an
// image that LoadImage already auto-oriented, so the saved file's pixels
// and its metadata agree.
func rewriteExifOrientationToOne(payload []byte) {
	const exifHeader = "Exif\x00\x00"
	if len(payload) < len(exifHeader)+8 || string(payload[:len(exifHeader)]) != exifHeader {
		return
	}
	tiffStart := len(exifHeader)
	if tiffStart+8 > len(payload) {
		return
	}
	var order binary.ByteOrder
	switch {
	case payload[tiffStart] == 'I' && payload[tiffStart+1] == 'I':
		order = binary.LittleEndian
	case payload[tiffStart] == 'M' && payload[tiffStart+1] == 'M':
		order = binary.BigEndian
	default:
		return
	}
	ifd0Off := int(order.Uint32(payload[tiffStart+4 : tiffStart+8]))
	absIfd := tiffStart + ifd0Off
	if absIfd+2 > len(payload) {
		return
	}
	nEntries := int(order.Uint16(payload[absIfd : absIfd+2]))
	entriesBase := absIfd + 2
	for e := 0; e < nEntries; e++ {
		ent := entriesBase + e*12
		if ent+12 > len(payload) {
			break
		}
		tag := order.Uint16(payload[ent : ent+2])
		typ := order.Uint16(payload[ent+2 : ent+4])
		if tag == 0x0112 && typ == 3 {
			order.PutUint16(payload[ent+8:ent+10], 1)
			return
		}
	}
}
