package monitoring

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Feed streams turn records to websocket clients as they happen
type Feed struct {
	mu       sync.Mutex
	clients  map[*feedClient]struct{}
	log      *slog.Logger
	onChange func(clients int)
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewFeed creates an empty feed
func NewFeed(log *slog.Logger) *Feed {
	if log == nil {
		log = slog.Default()
	}
	return &Feed{
		clients: make(map[*feedClient]struct{}),
		log:     log,
	}
}

// ServeWS upgrades the request and subscribes the client to the feed
func (f *Feed) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		f.log.Warn("Failed to upgrade feed connection", "error", err)
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
	f.add(client)

	go f.writePump(client)
	go f.readPump(client)
}

// Publish sends rec to every client. Slow clients miss records rather than
// hold up the webhook.
func (f *Feed) Publish(rec TurnRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		f.log.Error("Failed to marshal turn record", "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for client := range f.clients {
		select {
		case client.send <- data:
		default:
			f.log.Warn("Feed buffer full, dropping turn", "remote", client.conn.RemoteAddr().String())
		}
	}
}

// Clients returns the number of connected clients
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) add(client *feedClient) {
	f.mu.Lock()
	f.clients[client] = struct{}{}
	n := len(f.clients)
	f.mu.Unlock()
	f.changed(n)
}

func (f *Feed) remove(client *feedClient) {
	f.mu.Lock()
	if _, ok := f.clients[client]; !ok {
		f.mu.Unlock()
		return
	}
	delete(f.clients, client)
	close(client.send)
	n := len(f.clients)
	f.mu.Unlock()
	f.changed(n)
}

func (f *Feed) changed(n int) {
	if f.onChange != nil {
		f.onChange(n)
	}
}

// readPump only watches for the client going away
func (f *Feed) readPump(client *feedClient) {
	defer func() {
		f.remove(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				f.log.Warn("Feed connection error", "error", err)
			}
			return
		}
	}
}

func (f *Feed) writePump(client *feedClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
