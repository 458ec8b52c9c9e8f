package build

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/etnz/rpm-sign/rpm"
)

// Coding identifies the compression applied to the payload archive.
// The names match the payload-compressor header entry values.
type Coding string

const (
	CodingNone Coding = "none"
	CodingGzip Coding = "gzip"
	CodingZstd Coding = "zstd"
)

// ParseCoding parses a coding from its header-entry name.
func ParseCoding(name string) (Coding, error) {
	switch Coding(name) {
	case CodingNone, CodingGzip, CodingZstd:
		return Coding(name), nil
	default:
		return "", fmt.Errorf("%w: unknown payload coding %q", rpm.ErrFormat, name)
	}
}

// NewWriter returns a writer compressing into w with this coding.
func (c Coding) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CodingNone:
		return nopWriteCloser{w}, nil
	case CodingGzip:
		return gzip.NewWriter(w), nil
	case CodingZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd writer: %v", rpm.ErrIO, err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("%w: unknown payload coding %q", rpm.ErrFormat, string(c))
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Tee returns a writer that feeds every raw byte to the processors,
// compresses the stream with the selected coding, and feeds the
// compressed bytes to the processors while also writing them to w.
// Close flushes the compressor; the processors are ready for Finish
// afterwards.
func Tee(w io.Writer, coding Coding, processors ...PayloadProcessor) (io.WriteCloser, error) {
	compressed := &processorWriter{w: w, processors: processors}
	cw, err := coding.NewWriter(compressed)
	if err != nil {
		return nil, err
	}
	return &tee{cw: cw, processors: processors}, nil
}

// processorWriter forwards compressed bytes to the underlying writer
// and to every processor's compressed stream.
type processorWriter struct {
	w          io.Writer
	processors []PayloadProcessor
}

func (pw *processorWriter) Write(p []byte) (int, error) {
	for _, proc := range pw.processors {
		proc.FeedCompressed(p)
	}
	return pw.w.Write(p)
}

type tee struct {
	cw         io.WriteCloser
	processors []PayloadProcessor
}

func (t *tee) Write(p []byte) (int, error) {
	for _, proc := range t.processors {
		proc.FeedRaw(p)
	}
	return t.cw.Write(p)
}

func (t *tee) Close() error {
	if err := t.cw.Close(); err != nil {
		return fmt.Errorf("%w: closing payload coding: %v", rpm.ErrIO, err)
	}
	return nil
}
