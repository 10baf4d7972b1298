package metadata

import (
	"bytes"
	"encoding/binary"
	"time"
)

// TIFF field types.
const (
	tiffByte     = 1
	tiffASCII    = 2
	tiffLong     = 4
	tiffRational = 5
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	data  []byte
}

func asciiEntry(tag uint16, s string) ifdEntry {
	b := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: tiffASCII, count: uint32(len(b)), data: b}
}

func rationalEntry(tag uint16, vals ...[2]uint32) ifdEntry {
	b := make([]byte, 0, 8*len(vals))
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, v[0])
		b = binary.LittleEndian.AppendUint32(b, v[1])
	}
	return ifdEntry{tag: tag, typ: tiffRational, count: uint32(len(vals)), data: b}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	return ifdEntry{tag: tag, typ: tiffLong, count: 1, data: binary.LittleEndian.AppendUint32(nil, v)}
}

func byteEntry(tag uint16, v byte) ifdEntry {
	return ifdEntry{tag: tag, typ: tiffByte, count: 1, data: []byte{v}}
}

func ifdSize(entries []ifdEntry) int {
	n := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if len(e.data) > 4 {
			n += len(e.data) + len(e.data)%2
		}
	}
	return n
}

func writeIFD(buf *bytes.Buffer, entries []ifdEntry) {
	le := binary.LittleEndian
	base := buf.Len()
	dataPos := base + 2 + 12*len(entries) + 4

	var data []byte
	_ = binary.Write(buf, le, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(buf, le, e.tag)
		_ = binary.Write(buf, le, e.typ)
		_ = binary.Write(buf, le, e.count)
		if len(e.data) <= 4 {
			v := make([]byte, 4)
			copy(v, e.data)
			buf.Write(v)
			continue
		}
		_ = binary.Write(buf, le, uint32(dataPos+len(data)))
		data = append(data, e.data...)
		if len(e.data)%2 == 1 {
			data = append(data, 0)
		}
	}
	_ = binary.Write(buf, le, uint32(0))
	buf.Write(data)
}

// buildTIFF assembles a little-endian TIFF with an IFD0 and optional Exif and
// GPS sub-IFDs. Entries must be sorted by tag.
func buildTIFF(ifd0, exifIFD, gpsIFD []ifdEntry) []byte {
	const exifPointer, gpsPointer = 0x8769, 0x8825

	root := append([]ifdEntry(nil), ifd0...)
	if exifIFD != nil {
		root = append(root, longEntry(exifPointer, 0))
	}
	if gpsIFD != nil {
		root = append(root, longEntry(gpsPointer, 0))
	}

	exifOff := 8 + ifdSize(root)
	gpsOff := exifOff
	if exifIFD != nil {
		gpsOff += ifdSize(exifIFD)
	}
	for i := range root {
		switch root[i].tag {
		case exifPointer:
			root[i] = longEntry(exifPointer, uint32(exifOff))
		case gpsPointer:
			root[i] = longEntry(gpsPointer, uint32(gpsOff))
		}
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	_ = binary.Write(&buf, binary.LittleEndian, uint16(42))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(8))
	writeIFD(&buf, root)
	if exifIFD != nil {
		writeIFD(&buf, exifIFD)
	}
	if gpsIFD != nil {
		writeIFD(&buf, gpsIFD)
	}
	return buf.Bytes()
}

// sampleTIFF is a photo taken at Tokyo Tower on 2023-06-15 at 14:30:00 +09:00,
// edited the next day.
func sampleTIFF() []byte {
	return buildTIFF(
		[]ifdEntry{
			asciiEntry(0x010f, "FUJIFILM"),
			asciiEntry(0x0110, "X-T4"),
			asciiEntry(0x0132, "2023:06:16 09:00:00"),
		},
		[]ifdEntry{
			asciiEntry(0x9003, "2023:06:15 14:30:00"),
			asciiEntry(0x9004, "2023:06:15 14:30:01"),
			asciiEntry(0x9011, "+09:00"),
		},
		[]ifdEntry{
			asciiEntry(0x0001, "N"),
			rationalEntry(0x0002, [2]uint32{35, 1}, [2]uint32{39, 1}, [2]uint32{3096, 100}),
			asciiEntry(0x0003, "E"),
			rationalEntry(0x0004, [2]uint32{139, 1}, [2]uint32{44, 1}, [2]uint32{4344, 100}),
			byteEntry(0x0005, 0),
			rationalEntry(0x0006, [2]uint32{333, 1}),
		},
	)
}

// buildMP4 assembles an ftyp box and a moov box holding a version 0 mvhd.
func buildMP4(created, modified time.Time) []byte {
	be := binary.BigEndian
	box := func(typ string, payload []byte) []byte {
		b := be.AppendUint32(nil, uint32(8+len(payload)))
		b = append(b, typ...)
		return append(b, payload...)
	}
	mp4Seconds := func(t time.Time) uint32 {
		if t.IsZero() {
			return 0
		}
		return uint32(t.Unix() + mp4EpochOffset)
	}

	ftyp := box("ftyp", append([]byte("isom"), 0, 0, 2, 0))

	var mvhd []byte
	mvhd = append(mvhd, 0, 0, 0, 0) // version and flags
	mvhd = be.AppendUint32(mvhd, mp4Seconds(created))
	mvhd = be.AppendUint32(mvhd, mp4Seconds(modified))
	mvhd = be.AppendUint32(mvhd, 1000)       // timescale
	mvhd = be.AppendUint32(mvhd, 5000)       // duration
	mvhd = be.AppendUint32(mvhd, 0x00010000) // rate 1.0
	mvhd = append(mvhd, 0x01, 0x00)          // volume 1.0
	mvhd = append(mvhd, make([]byte, 2+8)...)
	for _, v := range []uint32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000} {
		mvhd = be.AppendUint32(mvhd, v)
	}
	mvhd = append(mvhd, make([]byte, 24)...)
	mvhd = be.AppendUint32(mvhd, 2) // next track ID

	return append(ftyp, box("moov", box("mvhd", mvhd))...)
}
