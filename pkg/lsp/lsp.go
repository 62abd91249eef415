// Package lsp implements a language server for pyrite scripts.
//
// The server speaks JSON-RPC 2.0 with the Content-Length framing used by
// LSP clients, normally over stdin and stdout. It publishes syntax
// diagnostics on open and change, and completes names known to a script
// engine.
package lsp

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

// Run serves LSP over the given file pair until the client disconnects.
// Callers normally pass os.Stdin and os.Stdout.
func Run(in, out *os.File) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := newServer()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{in, out}, jsonrpc2.VSCodeObjectCodec{}),
		handler(s))
	<-conn.DisconnectNotify()
	return nil
}

type transport struct{ in, out *os.File }

func (t transport) Read(p []byte) (int, error)  { return t.in.Read(p) }
func (t transport) Write(p []byte) (int, error) { return t.out.Write(p) }

func (t transport) Close() error {
	if err := t.in.Close(); err != nil {
		t.out.Close()
		return err
	}
	return t.out.Close()
}
