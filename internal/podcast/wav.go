package podcast

import (
	"encoding/binary"
	"io"

	"github.com/rotisserie/eris"
)

// WriteWAV wraps raw little-endian PCM samples in a canonical 44-byte RIFF
// header and writes the result to w.
func WriteWAV(w io.Writer, pcm []byte, sampleRate, channels, bitsPerSample int) error {
	if sampleRate <= 0 || channels <= 0 || bitsPerSample <= 0 {
		return eris.New("podcast: invalid wav parameters")
	}

	blockAlign := channels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign
	dataLen := len(pcm)

	var header []any
	header = append(header,
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36+dataLen),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),              // fmt chunk size
		uint16(1),               // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(dataLen),
	)
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return eris.Wrap(err, "podcast: write wav header")
		}
	}

	if _, err := w.Write(pcm); err != nil {
		return eris.Wrap(err, "podcast: write wav data")
	}
	return nil
}
