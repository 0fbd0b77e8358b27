package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
)

// maxMessageSize bounds a single payload so a broken header cannot make the
// server allocate without limit.
const maxMessageSize = 64 << 20

// readMessage reads one base-protocol frame. Headers other than
// Content-Length are accepted and ignored.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errors.New("missing Content-Length header")
	}
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid Content-Length: %w", err)
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid Content-Length: %d", size)
	}
	if size > maxMessageSize {
		return nil, fmt.Errorf("message of %d bytes exceeds limit", size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func writeMessage(w io.Writer, payload []byte) error {
	frame := make([]byte, 0, len(payload)+32)
	frame = append(frame, "Content-Length: "...)
	frame = strconv.AppendInt(frame, int64(len(payload)), 10)
	frame = append(frame, "\r\n\r\n"...)
	frame = append(frame, payload...)
	_, err := w.Write(frame)
	return err
}
