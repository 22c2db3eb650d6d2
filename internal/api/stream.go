package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/scttee/elibilitychecker/internal/registry"
)

const (
	streamWriteTimeout = 10 * time.Second
	// streamMaxQuery is the longest query that is searched. Longer messages
	// are answered with no results.
	streamMaxQuery = 64 << 10
	// streamMaxMessage bounds a single frame; larger frames close the socket.
	streamMaxMessage = 1 << 20
)

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	return c.conn.WriteJSON(payload)
}

// StreamError is sent instead of results when a query cannot run.
type StreamError struct {
	Query string `json:"query"`
	Error string `json:"error"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if len(s.allowedOrigins) == 0 || origin == "" {
				return true
			}
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
}

// handleLookupStream answers every text message with the lookup results for
// that message. The source and limit are fixed per connection by the query
// string.
func (s *Server) handleLookupStream(c *gin.Context) {
	source := strings.ToLower(strings.TrimSpace(c.DefaultQuery("source", SourceAll)))
	limit := 0
	if value := strings.TrimSpace(c.Query("limit")); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			limit = parsed
		}
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}
	conn.SetReadLimit(streamMaxMessage)
	client := &wsClient{conn: conn}
	remote := conn.RemoteAddr().String()
	logrus.WithFields(logrus.Fields{"remote": remote, "source": source}).Info("lookup websocket connected")
	defer conn.Close()

	for {
		kind, payload, oversized, err := readQuery(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Warn("lookup websocket unexpected close")
			} else {
				logrus.WithField("remote", remote).Info("lookup websocket closed")
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		query := string(payload)
		var reply interface{}
		if oversized {
			reply = LookupResponse{Query: query, Results: []registry.Record{}}
		} else if results, err := s.lookup(source, query, limit); err != nil {
			reply = StreamError{Query: query, Error: err.Error()}
		} else {
			reply = LookupResponse{Query: query, Results: results}
		}
		if err := client.writeJSON(reply); err != nil {
			logrus.WithError(err).WithField("remote", remote).Warn("write lookup results")
			return
		}
	}
}

// readQuery reads the next message, keeping at most streamMaxQuery bytes.
// The rest of an oversized message is discarded and oversized is set.
func readQuery(conn *websocket.Conn) (kind int, payload []byte, oversized bool, err error) {
	kind, r, err := conn.NextReader()
	if err != nil {
		return 0, nil, false, err
	}
	payload, err = io.ReadAll(io.LimitReader(r, streamMaxQuery+1))
	if err != nil {
		return 0, nil, false, err
	}
	if len(payload) > streamMaxQuery {
		if _, err := io.Copy(io.Discard, r); err != nil {
			return 0, nil, false, err
		}
		return kind, payload[:streamMaxQuery], true, nil
	}
	return kind, payload, false, nil
}
