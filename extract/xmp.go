package extract

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"regexp"
	"time"

	"github.com/ebridges/metaproc/model"
)

const xmpHeader = "http://ns.adobe.com/xap/1.0/\x00"

var xmpCreateDateRegexp = regexp.MustCompile(`xmp:CreateDate(?:="([^"]*)"|>([^<]*)<)`)

// readXMPPacket scans a JPEG stream for the APP1 segment carrying an XMP
// packet and returns the raw packet text, or "" when none is present.
func readXMPPacket(r io.Reader) string {
	br := bufio.NewReader(r)

	var soi [2]byte
	if _, err := io.ReadFull(br, soi[:]); err != nil || soi[0] != 0xFF || soi[1] != 0xD8 {
		return ""
	}

	for {
		marker, err := br.ReadByte()
		if err != nil {
			return ""
		}
		if marker != 0xFF {
			return ""
		}
		code, err := br.ReadByte()
		if err != nil {
			return ""
		}
		// padding bytes between segments
		for code == 0xFF {
			code, err = br.ReadByte()
			if err != nil {
				return ""
			}
		}
		// entropy-coded data follows SOS; no more metadata segments
		if code == 0xDA || code == 0xD9 {
			return ""
		}

		var lenBuf [2]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return ""
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf[:]))
		if segLen < 2 {
			return ""
		}
		payload := make([]byte, segLen-2)
		if _, err := io.ReadFull(br, payload); err != nil {
			return ""
		}

		if code == 0xE1 && bytes.HasPrefix(payload, []byte(xmpHeader)) {
			return string(payload[len(xmpHeader):])
		}
	}
}

// extractCreateDateXMP pulls the xmp:CreateDate attribute or element out of
// an XMP packet. XMP create dates usually carry a timezone offset, which is
// dropped so the result conforms with EXIF create dates.
func extractCreateDateXMP(packet string) *time.Time {
	if packet == "" {
		return nil
	}
	m := xmpCreateDateRegexp.FindStringSubmatch(packet)
	if m == nil {
		return nil
	}
	value := m[1]
	if value == "" {
		value = m[2]
	}
	return model.ParseDate(value, nil)
}
