package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/golfguiders/guiders-ai/backend/pkg/utils"
)

// TurnMetadata is the terminal payload confirming persistence of a
// turn. It is delivered strictly after the last token, never
// interleaved.
type TurnMetadata struct {
	ChatID    string `json:"chat_id"`
	HistoryID string `json:"history_id"`
	Created   int64  `json:"created"`
}

// sink abstracts the delivery mode of one streaming turn. Every mode
// must preserve chunk order and emit metadata or error only once, after
// the final chunk. Send failures are logged, not raised: once streaming
// has begun there is no other channel left to report on.
type sink interface {
	SendChunk(text string)
	SendMetadata(meta TurnMetadata)
	SendError(msg string)
}

// plainSink streams raw text chunks and appends the "[METADATA]" marker
// to the end of the body on success.
type plainSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newPlainSink(w http.ResponseWriter, flusher http.Flusher) *plainSink {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	return &plainSink{w: w, flusher: flusher}
}

func (s *plainSink) SendChunk(text string) {
	if _, err := fmt.Fprint(s.w, text); err != nil {
		log.Printf("[stream] failed to write chunk: %v", err)
		return
	}
	s.flusher.Flush()
}

func (s *plainSink) SendMetadata(meta TurnMetadata) {
	data, err := json.Marshal(meta)
	if err != nil {
		log.Printf("[stream] failed to marshal metadata: %v", err)
		return
	}
	fmt.Fprintf(s.w, "\n\n[METADATA]%s", data)
	s.flusher.Flush()
}

func (s *plainSink) SendError(msg string) {
	fmt.Fprintf(s.w, "[ERROR] %s", msg)
	s.flusher.Flush()
}

// sseSink delivers typed Server-Sent Events: `message` per chunk, then
// exactly one of `metadata` or `error`.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSESink(w http.ResponseWriter, flusher http.Flusher) *sseSink {
	utils.SetupSSEHeaders(w)
	return &sseSink{w: w, flusher: flusher}
}

func (s *sseSink) SendChunk(text string) {
	utils.SendSSEEvent(s.w, s.flusher, "message", map[string]string{"content": text})
}

func (s *sseSink) SendMetadata(meta TurnMetadata) {
	utils.SendSSEEvent(s.w, s.flusher, "metadata", meta)
}

func (s *sseSink) SendError(msg string) {
	utils.SendSSEEvent(s.w, s.flusher, "error", map[string]string{"error": msg})
}

// wsEvent mirrors the SSE event kinds over a WebSocket connection.
type wsEvent struct {
	Event    string        `json:"event"`
	Content  string        `json:"content,omitempty"`
	Metadata *TurnMetadata `json:"metadata,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// wsSink cancels the connection context on the first write failure so
// an in-flight turn stops instead of generating for a dead peer.
type wsSink struct {
	conn   *websocket.Conn
	cancel context.CancelFunc
}

func (s *wsSink) send(event wsEvent) {
	if err := s.conn.WriteJSON(event); err != nil {
		log.Printf("[stream] failed to write ws event: %v", err)
		if s.cancel != nil {
			s.cancel()
		}
	}
}

func (s *wsSink) SendChunk(text string) {
	s.send(wsEvent{Event: "message", Content: text})
}

func (s *wsSink) SendMetadata(meta TurnMetadata) {
	s.send(wsEvent{Event: "metadata", Metadata: &meta})
}

func (s *wsSink) SendError(msg string) {
	s.send(wsEvent{Event: "error", Error: msg})
}
