package client

import "errors"

const (
	jsonRPCParseError     = -32700
	jsonRPCInvalidRequest = -32600
	jsonRPCMethodNotFound = -32601
	jsonRPCInvalidParams  = -32602
	jsonRPCInternalError  = -32603
)

var (
	// ErrShutdownRequested is returned internally after the exit
	// notification is handled.
	ErrShutdownRequested = errors.New("client endpoint exit requested")
	// ErrDocumentNotOpen indicates a message referenced a buffer that is
	// not tracked.
	ErrDocumentNotOpen = errors.New("document is not open")
)
