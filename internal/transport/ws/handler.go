package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"opencivics/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	turnTimeout = 45 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS policy is enforced at the REST layer
	},
}

// Handler handles WebSocket chat connections
type Handler struct {
	hub        *Hub
	sessionSvc *service.SessionService
	chatSvc    *service.ChatService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, sessionSvc *service.SessionService, chatSvc *service.ChatService) *Handler {
	return &Handler{
		hub:        hub,
		sessionSvc: sessionSvc,
		chatSvc:    chatSvc,
	}
}

// ChatWS handles GET /v1/ws/chat
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.sessionSvc.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID: claims.SessionID,
		ProfileID: claims.ProfileID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var req service.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.hub.SendToSession(conn.SessionID, MsgError, map[string]string{"error": "invalid message"})
			continue
		}
		if req.SubjectID == "" {
			req.SubjectID = conn.ProfileID
		}

		h.handleTurn(conn, req)
	}
}

// handleTurn runs one chat turn and pushes the reply back to every
// connection of the session.
func (h *Handler) handleTurn(conn *Connection, req service.ChatRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	reply, err := h.chatSvc.Process(ctx, req)
	if err != nil {
		log.Printf("ws: chat turn failed for session %s: %v", conn.SessionID, err)
		h.hub.SendToSession(conn.SessionID, MsgError, map[string]string{"error": "could not process message"})
		return
	}

	// Remember a freshly created ephemeral profile so follow-up turns on
	// this connection stay bound to it.
	if conn.ProfileID == "" && reply.SubjectID != "" {
		conn.ProfileID = reply.SubjectID
	}

	msgType := MsgChatReply
	if reply.QuizComplete {
		msgType = MsgQuizComplete
	}
	h.hub.SendToSession(conn.SessionID, msgType, reply)
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
