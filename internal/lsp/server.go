package lsp

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/docsql/pkg/format"
)

// ErrExitWithoutShutdown is returned by Run when the client sends exit
// without a prior shutdown request.
var ErrExitWithoutShutdown = errors.New("exit received before shutdown")

// Options configures a Server.
type Options struct {
	// Format is the layout used for textDocument/formatting. The editor's
	// tab size overrides the indent when it asks for spaces.
	Format format.Options
	// Extensions limits diagnostics to files with these extensions.
	// Empty means every document.
	Extensions []string
	// Version is reported in serverInfo.
	Version string
	Logger  *slog.Logger
}

// phase is the server's position in the LSP lifecycle.
type phase int

const (
	phaseRunning phase = iota
	phaseShutdown
	phaseExited
)

// Server implements the Language Server Protocol for docsql queries.
// Messages are handled one at a time in the order they arrive.
type Server struct {
	conn      *conn
	documents *DocumentStore
	opts      Options
	logger    *slog.Logger

	phase        phase
	shutdownSeen bool
	snippets     bool // client accepts snippet completions
}

// NewServer creates a new LSP server reading requests from reader and
// writing responses to writer.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Format.Indent < 1 {
		opts.Format = format.DefaultOptions()
	}
	return &Server{
		conn:      newConn(reader, writer),
		documents: NewDocumentStore(),
		opts:      opts,
		logger:    logger,
	}
}

// Run processes messages until the client sends exit or closes the input
// stream. Malformed messages are logged and skipped.
func (s *Server) Run() error {
	s.logger.Info("docsql LSP server starting", "version", s.opts.Version)

	for s.phase != phaseExited {
		msg, err := s.conn.read()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			s.logger.Info("client disconnected")
			return nil
		}
		if err != nil {
			s.logger.Error("error reading message", "error", err)
			continue
		}
		s.dispatch(msg)
	}

	if !s.shutdownSeen {
		return ErrExitWithoutShutdown
	}
	return nil
}

// handlers maps methods to their handlers. Requests without a handler get
// a method-not-found error; notifications without one are dropped.
var handlers = map[string]func(*Server, *JSONRPCMessage){
	"initialize":              (*Server).handleInitialize,
	"initialized":             func(*Server, *JSONRPCMessage) {},
	"shutdown":                (*Server).handleShutdown,
	"exit":                    (*Server).handleExit,
	"textDocument/didOpen":    (*Server).handleDidOpen,
	"textDocument/didClose":   (*Server).handleDidClose,
	"textDocument/didChange":  (*Server).handleDidChange,
	"textDocument/didSave":    (*Server).handleDidSave,
	"textDocument/completion": (*Server).handleCompletion,
	"textDocument/hover":      (*Server).handleHover,
	"textDocument/formatting": (*Server).handleFormatting,
}

func (s *Server) dispatch(msg *JSONRPCMessage) {
	s.logger.Debug("received", "method", msg.Method)

	if s.phase == phaseShutdown && msg.Method != "exit" {
		if msg.IsRequest() {
			s.replyError(msg, codeInvalidRequest, "server is shutting down")
		}
		return
	}

	handle, ok := handlers[msg.Method]
	if !ok {
		if msg.IsRequest() {
			s.replyError(msg, codeMethodNotFound, "Method not found: "+msg.Method)
		}
		return
	}
	handle(s, msg)
}

// decodeParams unmarshals the message params into T. On failure the
// client gets an invalid-params error if it sent a request.
func decodeParams[T any](s *Server, msg *JSONRPCMessage) (T, bool) {
	var params T
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Error("invalid params", "method", msg.Method, "error", err)
		if msg.IsRequest() {
			s.replyError(msg, codeInvalidParams, err.Error())
		}
		return params, false
	}
	return params, true
}

func (s *Server) reply(msg *JSONRPCMessage, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.replyError(msg, codeInvalidRequest, err.Error())
		return
	}
	s.send(&JSONRPCMessage{ID: msg.ID, Result: raw})
}

func (s *Server) replyError(msg *JSONRPCMessage, code int, message string) {
	s.send(&JSONRPCMessage{ID: msg.ID, Error: &JSONRPCError{Code: code, Message: message}})
}

func (s *Server) notify(method string, params any) {
	raw, err := json.Marshal(params)
	if err != nil {
		s.logger.Error("error encoding notification", "method", method, "error", err)
		return
	}
	s.send(&JSONRPCMessage{Method: method, Params: raw})
}

func (s *Server) send(msg *JSONRPCMessage) {
	if err := s.conn.write(msg); err != nil {
		s.logger.Error("error writing message", "error", err)
	}
}

// --- Lifecycle ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) {
	params, ok := decodeParams[InitializeParams](s, msg)
	if !ok {
		return
	}

	s.snippets = params.Capabilities.TextDocument.Completion.CompletionItem.SnippetSupport
	if params.RootURI != "" {
		s.logger.Info("workspace root", "path", URIToPath(params.RootURI))
	}

	s.reply(msg, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{IncludeText: true},
			},
			CompletionProvider:         &CompletionOptions{TriggerCharacters: []string{"@"}},
			HoverProvider:              true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &ServerInfo{Name: "docsql", Version: s.opts.Version},
	})
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) {
	s.phase = phaseShutdown
	s.shutdownSeen = true
	s.reply(msg, nil)
	s.logger.Info("server shutdown")
}

func (s *Server) handleExit(*JSONRPCMessage) {
	s.phase = phaseExited
	s.logger.Info("server exit")
}

// --- Document sync ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) {
	params, ok := decodeParams[DidOpenTextDocumentParams](s, msg)
	if !ok {
		return
	}
	item := params.TextDocument
	s.documents.Open(item.URI, item.Text, item.Version)
	s.logger.Debug("opened", "uri", item.URI)
	s.publishDiagnostics(item.URI)
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) {
	params, ok := decodeParams[DidCloseTextDocumentParams](s, msg)
	if !ok {
		return
	}
	uri := params.TextDocument.URI
	s.documents.Close(uri)
	s.logger.Debug("closed", "uri", uri)

	// Clear diagnostics
	s.notify("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) {
	params, ok := decodeParams[DidChangeTextDocumentParams](s, msg)
	if !ok {
		return
	}
	uri := params.TextDocument.URI

	// Full sync: the last change holds the whole text
	if n := len(params.ContentChanges); n > 0 {
		s.documents.Update(uri, params.ContentChanges[n-1].Text, params.TextDocument.Version)
	}
	s.publishDiagnostics(uri)
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) {
	params, ok := decodeParams[DidSaveTextDocumentParams](s, msg)
	if !ok {
		return
	}
	uri := params.TextDocument.URI
	s.logger.Debug("saved", "path", URIToPath(uri))

	if params.Text == nil {
		return
	}
	if doc := s.documents.Get(uri); doc != nil && doc.Content != *params.Text {
		s.documents.Update(uri, *params.Text, doc.Version)
		s.publishDiagnostics(uri)
	}
}

// --- Language features ---

func (s *Server) handleCompletion(msg *JSONRPCMessage) {
	params, ok := decodeParams[CompletionParams](s, msg)
	if !ok {
		return
	}
	items := s.getCompletions(params)
	if items == nil {
		items = []CompletionItem{}
	}
	s.reply(msg, &CompletionList{Items: items})
}

func (s *Server) handleHover(msg *JSONRPCMessage) {
	params, ok := decodeParams[HoverParams](s, msg)
	if !ok {
		return
	}
	s.reply(msg, s.getHover(params))
}

func (s *Server) handleFormatting(msg *JSONRPCMessage) {
	params, ok := decodeParams[DocumentFormattingParams](s, msg)
	if !ok {
		return
	}
	edits, warning := s.getFormattingEdits(params)
	if warning != "" {
		s.notify("window/showMessage", &ShowMessageParams{Type: MessageTypeWarning, Message: warning})
	}
	s.reply(msg, edits)
}

// isQueryFile reports whether diagnostics apply to uri.
func (s *Server) isQueryFile(uri string) bool {
	if len(s.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(URIToPath(uri)))
	return slices.Contains(s.opts.Extensions, ext)
}
