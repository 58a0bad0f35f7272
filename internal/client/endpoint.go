package client

import (
	"bufio"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/nvimlc/languageclient/internal/project"
	"github.com/nvimlc/languageclient/internal/sign"
	"github.com/nvimlc/languageclient/internal/text"
	"github.com/nvimlc/languageclient/internal/vimcmd"
)

// Editor evaluates ex-command batches in the host editor.
type Editor interface {
	Execute(cmd string) error
}

// Endpoint is the reconciliation endpoint between the host editor and
// a language server. It consumes a Content-Length framed JSON-RPC
// stream: buffer lifecycle notifications from the editor side and
// publishDiagnostics/applyEdit traffic from the server side.
type Endpoint struct {
	store       *DocumentStore
	editor      Editor
	minSeverity sign.Severity
	logger      *slog.Logger
}

// NewEndpoint creates an endpoint with an empty document store. Signs
// for diagnostics below minSeverity are not displayed.
func NewEndpoint(editor Editor, minSeverity sign.Severity, logger *slog.Logger) *Endpoint {
	if logger == nil {
		logger = slog.Default()
	}
	return &Endpoint{
		store:       NewDocumentStore(),
		editor:      editor,
		minSeverity: minSeverity,
		logger:      logger,
	}
}

// Store returns the backing document store.
func (e *Endpoint) Store() *DocumentStore {
	if e == nil {
		return nil
	}
	return e.store
}

// Run serves JSON-RPC messages using Content-Length framing until EOF,
// context cancellation, or an exit notification.
func (e *Endpoint) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if e == nil {
		return errors.New("nil Endpoint")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readFramedMessage(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			_ = writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = bw.Flush()
			continue
		}
		if len(body) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			_ = writeErrorResponse(bw, nil, jsonRPCParseError, err.Error())
			_ = bw.Flush()
			continue
		}
		if req.JSONRPC != "" && req.JSONRPC != JSONRPCVersion {
			_ = writeErrorResponse(bw, req.ID, jsonRPCInvalidRequest, "unsupported jsonrpc version")
			_ = bw.Flush()
			continue
		}
		if req.Method == "" {
			// Response envelopes from the peer are not tracked.
			continue
		}

		if err := e.dispatch(bw, req); err != nil {
			if errors.Is(err, ErrShutdownRequested) {
				return nil
			}
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
}

func (e *Endpoint) dispatch(w *bufio.Writer, req Request) error {
	isRequest := len(req.ID) != 0

	writeResp := func(result any) error {
		if !isRequest {
			return nil
		}
		return writeResponse(w, Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result})
	}
	writeErr := func(code int, msg string) error {
		if !isRequest {
			return nil
		}
		return writeErrorResponse(w, req.ID, code, msg)
	}

	switch req.Method {
	case "textDocument/didOpen":
		var p DidOpenParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		e.DidOpen(p)
		return nil
	case "textDocument/didClose":
		var p DidCloseParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		e.DidClose(p)
		return nil
	case "textDocument/publishDiagnostics":
		var p PublishDiagnosticsParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		if err := e.PublishDiagnostics(p); err != nil {
			e.logger.Error("sign update failed", "uri", p.URI, "err", err)
			return writeErr(jsonRPCInternalError, err.Error())
		}
		return nil
	case "workspace/applyEdit":
		var p ApplyWorkspaceEditParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return writeErr(jsonRPCInvalidParams, err.Error())
		}
		res := e.ApplyEdit(p)
		return writeResp(res)
	case "shutdown":
		return writeResp(struct{}{})
	case "exit":
		return ErrShutdownRequested
	default:
		return writeErr(jsonRPCMethodNotFound, "method not found")
	}
}

// DidOpen tracks the opened buffer and resolves its project root.
func (e *Endpoint) DidOpen(p DidOpenParams) {
	path := uriToPath(p.TextDocument.URI)
	root, err := project.Root(path, p.TextDocument.LanguageID)
	if err != nil {
		e.logger.Warn("project root not resolved", "path", path, "err", err)
	}
	e.store.Open(path, root, p.TextDocument.Version, p.TextDocument.Text)
	e.logger.Debug("opened document",
		"path", path, "root", root, "version", p.TextDocument.Version)
}

// DidClose drops the buffer and its sign overlay.
func (e *Endpoint) DidClose(p DidCloseParams) {
	path := uriToPath(p.TextDocument.URI)
	e.store.Close(path)
	e.logger.Debug("closed document", "path", path)
}

// PublishDiagnostics converts published diagnostics into the new sign
// overlay for the file, reconciles it against the previous overlay, and
// hands the resulting command batch to the editor.
func (e *Endpoint) PublishDiagnostics(p PublishDiagnosticsParams) error {
	path := uriToPath(p.URI)
	cur := signsForDiagnostics(p.Diagnostics, e.minSeverity)
	prev := e.store.ReplaceSigns(path, cur)
	batch := vimcmd.UpdateSigns(prev, cur, path)
	e.logger.Debug("reconciled signs",
		"path", path, "previous", len(prev), "current", len(cur))
	return e.editor.Execute(batch)
}

// ApplyEdit applies a workspace edit to the tracked buffers. The whole
// batch is validated against unmutated buffer snapshots before any
// document is rewritten, so a failure leaves every buffer untouched.
func (e *Endpoint) ApplyEdit(p ApplyWorkspaceEditParams) ApplyWorkspaceEditResult {
	type documentEdits struct {
		path  string
		edits []text.TextEdit
	}

	batch := make([]documentEdits, 0, len(p.Edit.Changes))
	for uri, wireEdits := range p.Edit.Changes {
		path := uriToPath(uri)
		edits := make([]text.TextEdit, len(wireEdits))
		for i, we := range wireEdits {
			edits[i] = toTextEdit(we)
		}
		lines, ok := e.store.Lines(path)
		if !ok {
			return failure(fmt.Errorf("%w: %s", ErrDocumentNotOpen, path))
		}
		if err := text.ValidateEdits(lines, edits); err != nil {
			return failure(fmt.Errorf("edits for %s: %w", path, err))
		}
		batch = append(batch, documentEdits{path: path, edits: edits})
	}

	// Deterministic application order regardless of map iteration.
	slices.SortFunc(batch, func(a, b documentEdits) int {
		return cmp.Compare(a.path, b.path)
	})
	for _, de := range batch {
		if err := e.store.ApplyEdits(de.path, de.edits); err != nil {
			// Possible only if a buffer changed between validation and apply.
			return failure(err)
		}
	}
	return ApplyWorkspaceEditResult{Applied: true}
}

func failure(err error) ApplyWorkspaceEditResult {
	return ApplyWorkspaceEditResult{Applied: false, FailureReason: err.Error()}
}

// signsForDiagnostics maps diagnostics at or above minSeverity to a
// sign overlay ordered by line then severity, one sign per
// (line, severity) pair.
func signsForDiagnostics(diags []Diagnostic, minSeverity sign.Severity) []sign.Sign {
	signs := make([]sign.Sign, 0, len(diags))
	for _, d := range diags {
		sev := sign.Severity(d.Severity)
		if !sev.IsValid() {
			// Servers may omit severity; treat it as an error marker.
			sev = sign.SeverityError
		}
		if sev > minSeverity {
			continue
		}
		signs = append(signs, sign.New(d.Range.Start.Line+1, sev))
	}
	slices.SortFunc(signs, func(a, b sign.Sign) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Severity, b.Severity)
	})
	return slices.Compact(signs)
}

func toTextEdit(we TextEdit) text.TextEdit {
	return text.TextEdit{
		Range: text.Range{
			Start: text.Position{Line: we.Range.Start.Line, Character: we.Range.Start.Character},
			End:   text.Position{Line: we.Range.End.Line, Character: we.Range.End.Character},
		},
		NewText: we.NewText,
	}
}

// uriToPath converts a file URI to the path the editor knows the
// buffer by. Plain paths pass through unchanged.
func uriToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// PathToURI converts a local path to a file URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}

func writeResponse(w *bufio.Writer, resp Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return writeFramedMessage(w, body)
}

func writeErrorResponse(w *bufio.Writer, id json.RawMessage, code int, msg string) error {
	return writeResponse(w, Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &ResponseError{Code: code, Message: msg},
	})
}
