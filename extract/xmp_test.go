package extract

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendSegment(buf *bytes.Buffer, code byte, payload []byte) {
	buf.WriteByte(0xFF)
	buf.WriteByte(code)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(payload)+2))
	buf.Write(lenBuf[:])
	buf.Write(payload)
}

func TestReadXMPPacket(t *testing.T) {
	packet := `<x:xmpmeta xmp:CreateDate="2016-02-22T20:57:08-05:00"/>`

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	appendSegment(&buf, 0xE0, []byte("JFIF\x00"))
	appendSegment(&buf, 0xE1, append([]byte(xmpHeader), packet...))
	buf.Write([]byte{0xFF, 0xDA})

	assert.Equal(t, packet, readXMPPacket(&buf))
}

func TestReadXMPPacketAbsent(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	appendSegment(&buf, 0xE0, []byte("JFIF\x00"))
	// an APP1 segment that is EXIF, not XMP
	appendSegment(&buf, 0xE1, []byte("Exif\x00\x00"))
	buf.Write([]byte{0xFF, 0xDA})

	assert.Equal(t, "", readXMPPacket(&buf))
}

func TestReadXMPPacketNotAJPEG(t *testing.T) {
	assert.Equal(t, "", readXMPPacket(bytes.NewReader([]byte("\x89PNG\r\n"))))
	assert.Equal(t, "", readXMPPacket(bytes.NewReader(nil)))
}

func TestExtractCreateDateXMP(t *testing.T) {
	expected := time.Date(2016, 2, 22, 20, 57, 8, 0, time.UTC)

	dt := extractCreateDateXMP(`<x:xmpmeta xmp:CreateDate="2016-02-22T20:57:08-05:00"/>`)
	require.NotNil(t, dt)
	assert.True(t, expected.Equal(*dt))

	dt = extractCreateDateXMP(`<xmp:CreateDate>2016-02-22T20:57:08</xmp:CreateDate>`)
	require.NotNil(t, dt)
	assert.True(t, expected.Equal(*dt))

	assert.Nil(t, extractCreateDateXMP(""))
	assert.Nil(t, extractCreateDateXMP(`<x:xmpmeta xmlns:xmp="adobe"/>`))
}
