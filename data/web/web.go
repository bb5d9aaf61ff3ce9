// Package web provides network-backed sources for lazy pipelines.
// Requests are issued lazily on the first pull.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lguimbarda/min-data/data/core"
)

// DefaultChunkSize is the default size of chunks read from response bodies.
const DefaultChunkSize = 64 * 1024

// FetchChunks creates an iterator over the body of a GET request to url,
// in chunks of up to chunkSize bytes. The request is issued on the first
// pull; a non-2xx status fails the iterator. If client is nil,
// http.DefaultClient is used. If chunkSize <= 0, DefaultChunkSize is used.
func FetchChunks(client *http.Client, url string, chunkSize int) core.Iterator[[]byte] {
	if client == nil {
		client = http.DefaultClient
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return core.Serialize[[]byte](&urlIterator{client: client, url: url, chunkSize: chunkSize})
}

type urlIterator struct {
	client    *http.Client
	url       string
	chunkSize int
	body      io.ReadCloser
	started   bool
	done      bool
	failed    error
}

func (u *urlIterator) Next(ctx context.Context) (core.Result[[]byte], error) {
	if u.failed != nil {
		return core.Done[[]byte](), u.failed
	}
	if u.done {
		return core.Done[[]byte](), nil
	}

	if !u.started {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
		if err != nil {
			return core.Done[[]byte](), u.fail(err)
		}
		resp, err := u.client.Do(req)
		if err != nil {
			return core.Done[[]byte](), u.fail(err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return core.Done[[]byte](), u.fail(fmt.Errorf("unexpected status %s fetching %s", resp.Status, u.url))
		}
		u.body = resp.Body
		u.started = true
	}

	chunk := make([]byte, u.chunkSize)
	n, err := u.body.Read(chunk)
	if n > 0 {
		return core.Ok(chunk[:n]), nil
	}
	if errors.Is(err, io.EOF) {
		u.done = true
		closeErr := u.body.Close()
		u.body = nil
		if closeErr != nil {
			return core.Done[[]byte](), u.fail(closeErr)
		}
		return core.Done[[]byte](), nil
	}
	if err == nil {
		return u.Next(ctx)
	}
	u.body.Close()
	u.body = nil
	return core.Done[[]byte](), u.fail(err)
}

func (u *urlIterator) fail(err error) error {
	u.failed = core.TagError(err)
	return u.failed
}
