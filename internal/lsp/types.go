package lsp

import "encoding/json"

// JSON-RPC error codes used by the server.
const (
	codeInvalidRequest       = -32600
	codeInvalidParams        = -32602
	codeMethodNotFound       = -32601
	codeServerNotInitialized = -32002
)

type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// isRequest reports whether the message expects a response.
func (m *rpcMessage) isRequest() bool {
	return len(m.ID) > 0 && string(m.ID) != "null"
}

type lspSettings struct {
	Lantern struct {
		// Trace raises the log level of the server to debug.
		Trace *bool `json:"trace"`
	} `json:"lantern"`
}
