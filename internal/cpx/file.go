package cpx

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ReadIF reads digitized IF samples from a flat binary file of signed 8-bit
// samples into a new buffer. toff and T are in seconds; the byte offset is
// round(fs*toff*IQ) and the byte count round(fs*T*IQ). T = 0 reads the rest
// of the file. A short read is an error and no buffer is returned.
func ReadIF(path string, fs, toff, T float64, iq int) (*Buffer, error) {
	if iq != SamplingReal && iq != SamplingIQ {
		return nil, errors.Errorf("invalid sampling type %d", iq)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open IF file")
	}
	defer f.Close()

	off := int64(math.Round(fs * toff * float64(iq)))
	cnt := int64(math.Round(fs * T * float64(iq)))
	if cnt == 0 {
		st, err := f.Stat()
		if err != nil {
			return nil, errors.Wrap(err, "stat IF file")
		}
		cnt = st.Size() - off
		if cnt <= 0 {
			return nil, errors.Errorf("IF file %s: offset %d past end", path, off)
		}
		// keep whole complex samples only
		cnt -= cnt % int64(iq)
	}
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek IF file")
	}

	raw := make([]byte, cnt)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, errors.Wrapf(err, "IF file %s: short read (want %d bytes)", path, cnt)
	}

	buff := NewBuffer(int(cnt)/iq, iq)
	buff.Ingest(raw)
	return buff, nil
}
