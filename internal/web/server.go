package web

import (
	"context"
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/coder/websocket"
	"github.com/fsnotify/fsnotify"

	"github.com/peterkuimelis/deckhand/internal/deck"
	"github.com/peterkuimelis/deckhand/internal/tools"
)

//go:embed static
var staticFiles embed.FS

// DeckSnapshot is the JSON representation of the current deck, pushed
// over the websocket and served at /api/deck.
type DeckSnapshot struct {
	Content     string `json:"content"`
	TotalCards  int    `json:"totalCards"`
	UniqueCards int    `json:"uniqueCards"`
	Commander   string `json:"commander"`
	Curve       string `json:"curve"`
}

// Server is the deckhand live deck viewer.
type Server struct {
	kit *tools.Toolkit
	mux *http.ServeMux
}

// NewServer creates a web server over the given toolkit.
func NewServer(kit *tools.Toolkit) *Server {
	s := &Server{kit: kit, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/deck", s.handleDeck)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/curve", s.handleCurve)
	s.mux.HandleFunc("GET /api/card", s.handleCard)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// snapshot assembles the full deck view: raw content, stats, and the
// formatted mana curve.
func (s *Server) snapshot(ctx context.Context) (*DeckSnapshot, error) {
	content, err := s.kit.Store.ReadRaw()
	if err != nil {
		return nil, err
	}
	st := deck.Parse(content).Stats()
	return &DeckSnapshot{
		Content:     content,
		TotalCards:  st.TotalCards,
		UniqueCards: st.UniqueCards,
		Commander:   st.Commander,
		Curve:       s.kit.ManaCurve(ctx),
	}, nil
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		http.Error(w, "could not read deck file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	d, err := s.kit.Store.Read()
	if err != nil {
		http.Error(w, "could not read deck file", http.StatusInternalServerError)
		return
	}
	st := d.Stats()
	writeJSON(w, map[string]any{
		"totalCards":     st.TotalCards,
		"uniqueCards":    st.UniqueCards,
		"commander":      st.Commander,
		"multipleCopies": st.MultipleCopies,
	})
}

func (s *Server) handleCurve(w http.ResponseWriter, r *http.Request) {
	lines, err := s.kit.Store.Lines()
	if err != nil {
		http.Error(w, "could not read deck file", http.StatusInternalServerError)
		return
	}
	result, err := s.kit.Curve.Compute(r.Context(), lines)
	if err != nil {
		http.Error(w, "could not compute curve", http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}
	card, err := s.kit.Cards.Get(r.Context(), name)
	if err != nil {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}
	writeJSON(w, card)
}

// handleWebSocket streams deck snapshots: one on connect, then one
// every time the deck file changes on disk.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	if err := s.pushSnapshot(ctx, wsConn); err != nil {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("Watcher error: %v", err)
		wsConn.Close(websocket.StatusInternalError, "watch failed")
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace the file and
	// a direct watch dies with the old inode.
	deckPath := s.kit.Store.Path()
	if err := watcher.Add(filepath.Dir(deckPath)); err != nil {
		log.Printf("Watcher add error: %v", err)
		wsConn.Close(websocket.StatusInternalError, "watch failed")
		return
	}

	// Drain client frames so pings and close handshakes are processed.
	go func() {
		for {
			if _, _, err := wsConn.Read(ctx); err != nil {
				return
			}
		}
	}()

	// Editors often emit bursts of events for one save; debounce them.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			wsConn.Close(websocket.StatusNormalClosure, "")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(deckPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(100 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		case <-pending:
			pending = nil
			if err := s.pushSnapshot(ctx, wsConn); err != nil {
				return
			}
		}
	}
}

func (s *Server) pushSnapshot(ctx context.Context, wsConn *websocket.Conn) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		log.Printf("Snapshot error: %v", err)
		msg, _ := json.Marshal(map[string]string{"type": "error", "result": err.Error()})
		return wsConn.Write(ctx, websocket.MessageText, msg)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return wsConn.Write(ctx, websocket.MessageText, data)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Handler exposes the route mux.
func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
