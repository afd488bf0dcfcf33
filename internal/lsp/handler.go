package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"vnopt/internal/ir"
)

// Define the set of supported semantic token types (advertised in the server legend)
var SemanticTokenTypes = []string{
	"namespace",
	"type",
	"function",
	"variable",
	"parameter",
	"keyword",
	"number",
	"operator",
	"modifier",
	"comment",
}

// Define the set of supported semantic token modifiers (for extra tagging like declaration, readonly, etc.)
var SemanticTokenModifiers = []string{
	"declaration",
	"definition",
	"readonly",
	"static",
	"deprecated",
	"abstract",
}

// Handler implements the LSP server handlers for textual IR files
type Handler struct {
	mu          sync.RWMutex
	content     map[string]string
	diagnostics map[string][]protocol.Diagnostic
	log         commonlog.Logger
}

// NewHandler creates and returns a new Handler instance
func NewHandler() *Handler {
	return &Handler{
		content:     make(map[string]string),
		diagnostics: make(map[string][]protocol.Diagnostic),
		log:         commonlog.GetLogger("vnopt.lsp"),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true), // support full-document semantic token requests
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Info("vnopt LSP Initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	h.log.Info("vnopt LSP Shutdown")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen analyzes a freshly opened document
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.log.Infof("Opened file: %s", params.TextDocument.URI)
	return h.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
}

// TextDocumentDidClose drops the cached state of a document
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.log.Infof("Closed file: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.diagnostics, path)

	return nil
}

// TextDocumentDidChange re-analyzes a document. Only full synchronization
// is advertised, so the last change carries the whole text.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.log.Debugf("Changed file: %s", params.TextDocument.URI)

	var text string
	var found bool
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case *protocol.TextDocumentContentChangeEventWhole:
			text, found = c.Text, true
		case protocol.TextDocumentContentChangeEvent:
			text, found = c.Text, true
		case *protocol.TextDocumentContentChangeEvent:
			text, found = c.Text, true
		}
	}
	if !found {
		return nil
	}
	return h.update(ctx, params.TextDocument.URI, text)
}

// TextDocumentCompletion offers opcodes and the intrinsics the optimizer knows
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        completionItems(),
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	h.log.Debugf("TextDocumentSemanticTokensFull called for: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	source, err := h.source(path)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(path, source)),
	}, nil
}

// Diagnostics returns the diagnostics last published for path.
func (h *Handler) Diagnostics(path string) []protocol.Diagnostic {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.diagnostics[path]
}

func (h *Handler) source(path string) (string, error) {
	h.mu.RLock()
	source, ok := h.content[path]
	h.mu.RUnlock()
	if ok {
		return source, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return string(content), nil
}

func (h *Handler) update(ctx *glsp.Context, rawURI protocol.DocumentUri, text string) error {
	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	diagnostics := Analyze(path, text)
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	h.mu.Lock()
	h.content[path] = text
	h.diagnostics[path] = diagnostics
	h.mu.Unlock()

	h.publishDiagnostics(ctx, rawURI, diagnostics)
	return nil
}

func (h *Handler) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	h.log.Debugf("Sending %d diagnostics for %s", len(diagnostics), uri)

	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func completionItems() []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, name := range ir.OpcodeNames() {
		items = append(items, protocol.CompletionItem{
			Label: name,
			Kind:  ptrCompletionKind(protocol.CompletionItemKindKeyword),
		})
	}
	for _, name := range ir.IntrinsicNames() {
		items = append(items, protocol.CompletionItem{
			Label:  "@" + name,
			Kind:   ptrCompletionKind(protocol.CompletionItemKindFunction),
			Detail: ptrString("intrinsic"),
		})
	}
	return items
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) → C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	// Normalize to platform-specific separators
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func ptrCompletionKind(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}
