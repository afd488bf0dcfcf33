// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"vnopt/internal/lsp"
)

const lsName = "vnopt" // Name identifier for the language server

var (
	version = "0.1.0"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	verbosity := flag.Int("verbosity", 1, "log verbosity (2 = debug)")
	logFile := flag.String("log", "", "write logs to this file instead of stderr")
	flag.Parse()

	if *logFile != "" {
		commonlog.Configure(*verbosity, logFile)
	} else {
		commonlog.Configure(*verbosity, nil)
	}
	log := commonlog.GetLogger("vnopt.server")

	irHandler := lsp.NewHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     irHandler.Initialize,
		Initialized:                    irHandler.Initialized,
		Shutdown:                       irHandler.Shutdown,
		SetTrace:                       irHandler.SetTrace,
		TextDocumentDidOpen:            irHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           irHandler.TextDocumentDidClose,
		TextDocumentDidChange:          irHandler.TextDocumentDidChange,
		TextDocumentCompletion:         irHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: irHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Infof("Starting vnopt LSP server %s...", version)

	// stdio is what most editors use to talk to a language server
	if err := s.RunStdio(); err != nil {
		log.Errorf("Error starting vnopt LSP server: %s", err)
		os.Exit(1)
	}
}
