// Package io provides file-backed sources for lazy pipelines.
// Files are opened lazily on the first pull, so constructing a source never
// touches the filesystem.
package io

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/lguimbarda/min-data/data/core"
	"github.com/lguimbarda/min-data/data/text"
)

// DefaultChunkSize is the default size of chunks read from files.
const DefaultChunkSize = 64 * 1024

// ReadChunks creates an iterator over the raw bytes of the file at path,
// in chunks of up to chunkSize bytes (the final chunk may be shorter).
// The file is opened on the first pull and closed on exhaustion or failure.
// If chunkSize <= 0, DefaultChunkSize is used.
func ReadChunks(path string, chunkSize int) core.Iterator[[]byte] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return core.Serialize[[]byte](&fileIterator{path: path, chunkSize: chunkSize})
}

type fileIterator struct {
	path      string
	chunkSize int
	file      *os.File
	opened    bool
	done      bool
	failed    error
}

func (f *fileIterator) Next(ctx context.Context) (core.Result[[]byte], error) {
	if f.failed != nil {
		return core.Done[[]byte](), f.failed
	}
	if f.done {
		return core.Done[[]byte](), nil
	}
	if err := ctx.Err(); err != nil {
		return core.Done[[]byte](), f.fail(err)
	}

	if !f.opened {
		file, err := os.Open(f.path)
		if err != nil {
			return core.Done[[]byte](), f.fail(err)
		}
		f.file = file
		f.opened = true
	}

	chunk := make([]byte, f.chunkSize)
	n, err := f.file.Read(chunk)
	if n > 0 {
		return core.Ok(chunk[:n]), nil
	}
	if errors.Is(err, io.EOF) {
		f.done = true
		closeErr := f.file.Close()
		f.file = nil
		if closeErr != nil {
			return core.Done[[]byte](), f.fail(closeErr)
		}
		return core.Done[[]byte](), nil
	}
	if err == nil {
		// Zero-byte read without error; try again on the next pull.
		return f.Next(ctx)
	}
	f.file.Close()
	f.file = nil
	return core.Done[[]byte](), f.fail(err)
}

func (f *fileIterator) fail(err error) error {
	f.failed = core.TagError(err)
	return f.failed
}

// ReadLines creates an iterator over the lines of the UTF-8 text file at
// path, composing ReadChunks with UTF-8 decoding and line splitting.
func ReadLines(path string) core.Iterator[string] {
	return text.Lines(text.DecodeUTF8(ReadChunks(path, DefaultChunkSize)))
}
