package fits

import (
	"errors"
	"io"
)

// BlockSource yields the raw blocks of a FITS stream. ReadBlock returns
// io.EOF, and no data, once the stream is exhausted. A block shorter than
// BlockLength is reported as a truncated block by the reader.
type BlockSource interface {
	ReadBlock() ([]byte, error)
}

// ReaderSource adapts an io.Reader to a BlockSource.
func ReaderSource(r io.Reader) BlockSource {
	return &readerSource{r: r, buf: make([]byte, BlockLength)}
}

type readerSource struct {
	r   io.Reader
	buf []byte
}

func (s *readerSource) ReadBlock() ([]byte, error) {
	n, err := io.ReadFull(s.r, s.buf)
	switch {
	case err == nil:
		return s.buf, nil
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return s.buf[:n], nil
	}
	return nil, err
}

// blockReader pulls blocks from a source and cuts them into cards.
type blockReader struct {
	src   BlockSource
	block int
}

// next returns the 36 cards of the next block, or io.EOF at the end of
// the source.
func (r *blockReader) next() ([]string, error) {
	buf, err := r.raw()
	if err != nil {
		return nil, err
	}

	lines := make([]string, BlockLines)
	for i := range lines {
		lines[i] = string(buf[i*LineLength : (i+1)*LineLength])
	}
	return lines, nil
}

// raw returns the next full block without slicing it.
func (r *blockReader) raw() ([]byte, error) {
	buf, err := r.src.ReadBlock()
	if errors.Is(err, io.EOF) {
		if len(buf) == 0 {
			return nil, io.EOF
		}
		// Data returned alongside io.EOF is still a block.
		err = nil
	}
	if err != nil {
		return nil, &IOError{Err: err}
	}
	if len(buf) == 0 {
		return nil, io.EOF
	}
	if len(buf) != BlockLength {
		return nil, &TruncatedBlockError{Block: r.block, N: len(buf)}
	}

	r.block++
	return buf, nil
}
