package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"SignPad/internal/state"

	"github.com/gorilla/websocket"
)

// MirrorPath is where the hub accepts viewer connections.
const MirrorPath = "/mirror"

const (
	writeWait   = 5 * time.Second
	peerBacklog = 64
)

// peer is one connected viewer.
type peer struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Hub relays committed strokes, undos and clears of a session to every
// connected viewer. It keeps a replica of the stack so late joiners get
// the current drawing before live events.
type Hub struct {
	mu       sync.RWMutex
	peers    map[*peer]bool
	replica  *state.Replica
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		peers:   make(map[*peer]bool),
		replica: state.NewReplica(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Observe is a session subscriber. It never blocks: a viewer that cannot
// keep up is disconnected.
func (h *Hub) Observe(ev state.Event) {
	switch ev.Kind {
	case state.EventCommit, state.EventUndo, state.EventClear:
	default:
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[MIRROR] Failed to encode %s event: %v", ev.Kind, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.replica.Apply(ev)
	for p := range h.peers {
		select {
		case p.send <- data:
		default:
			log.Printf("[MIRROR] Viewer %s is too slow, dropping it", p.addr)
			h.dropLocked(p)
		}
	}
}

// Peers returns the number of connected viewers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[MIRROR] Upgrade from %s failed: %v", r.RemoteAddr, err)
		return
	}

	h.mu.Lock()
	history := h.replica.Strokes()
	p := &peer{
		conn: conn,
		send: make(chan []byte, len(history)+peerBacklog),
		addr: conn.RemoteAddr().String(),
	}
	for i := range history {
		data, err := json.Marshal(state.Event{Kind: state.EventCommit, Stroke: &history[i]})
		if err != nil {
			continue
		}
		p.send <- data
	}
	h.peers[p] = true
	h.mu.Unlock()
	log.Printf("[MIRROR] Viewer connected from %s (%d strokes replayed)", p.addr, len(history))

	go h.writeLoop(p)
	h.readLoop(p)
}

// readLoop only watches for the viewer going away; viewers never send.
func (h *Hub) readLoop(p *peer) {
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			h.mu.Lock()
			h.dropLocked(p)
			h.mu.Unlock()
			log.Printf("[MIRROR] Viewer %s disconnected: %v", p.addr, err)
			return
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[MIRROR] Error sending to %s: %v", p.addr, err)
			return
		}
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) dropLocked(p *peer) {
	if h.peers[p] {
		delete(h.peers, p)
		close(p.send)
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		h.dropLocked(p)
	}
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(MirrorPath, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[MIRROR] Listening on %s%s", addr, MirrorPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("mirror server on %s: %w", addr, err)
	}
	return nil
}

// Follow connects to a hub at url and applies every relayed event to r,
// calling onChange when the visible stack changed. It returns when ctx is
// cancelled or the connection drops.
func Follow(ctx context.Context, url string, r *state.Replica, onChange func()) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		var ev state.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("mirror %s: %w", url, err)
		}
		if r.Apply(ev) && onChange != nil {
			onChange()
		}
	}
}
