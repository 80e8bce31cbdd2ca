package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"parcel-tracking-service/internal/domain"
	"parcel-tracking-service/internal/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The HTTP layer serves browser clients from any origin, mirroring the
	// permissive CORS policy of the REST surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type joinOfficePayload struct {
	OfficeID string `json:"officeId"`
	UserID   string `json:"userId"`
}

type userOnlinePayload struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Handler upgrades HTTP requests to websocket connections and dispatches
// the client event protocol onto the hub and the presence store.
type Handler struct {
	Hub      *Hub
	Presence ports.PresenceStore

	// Authenticate verifies the token query parameter before upgrading.
	// Nil leaves the endpoint open.
	Authenticate func(token string) error
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Authenticate != nil {
		if err := h.Authenticate(r.URL.Query().Get("token")); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: err=%v", err)
		return
	}

	client := NewClient(uuid.NewString(), conn)
	h.Hub.Register(client)
	log.Printf("client connected: conn_id=%s", client.ID)

	go client.writePump()
	h.readLoop(r.Context(), client)
}

// readLoop consumes inbound frames until the connection drops, then tears
// down presence and room state.
func (h *Handler) readLoop(ctx context.Context, client *Client) {
	defer h.disconnect(client)

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read failed: conn_id=%s err=%v", client.ID, err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Printf("malformed frame: conn_id=%s err=%v", client.ID, err)
			continue
		}
		h.dispatch(ctx, client, frame)
	}
}

func (h *Handler) dispatch(ctx context.Context, client *Client, frame Frame) {
	switch frame.Event {
	case "join_office":
		var p joinOfficePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.OfficeID == "" {
			log.Printf("invalid join_office payload: conn_id=%s err=%v", client.ID, err)
			return
		}
		h.Hub.Join(client, p.OfficeID)
		log.Printf("joined room: conn_id=%s office_id=%s user_id=%s", client.ID, p.OfficeID, p.UserID)

	case "user_online":
		var p userOnlinePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.UserID == "" {
			log.Printf("invalid user_online payload: conn_id=%s err=%v", client.ID, err)
			return
		}
		online, err := h.Presence.MarkOnline(ctx, client.ID, p.UserID, p.Role)
		if err != nil {
			log.Printf("mark online failed: conn_id=%s user_id=%s err=%v", client.ID, p.UserID, err)
			return
		}
		h.Hub.Broadcast(domain.EventUserConnected, domain.UserConnectedEvent{UserID: p.UserID})
		h.Hub.Broadcast(domain.EventPresenceUpdate, domain.PresenceUpdateEvent{OnlineUserIDs: online})

	case "get_online_users":
		online, err := h.Presence.Snapshot(ctx)
		if err != nil {
			log.Printf("presence snapshot failed: conn_id=%s err=%v", client.ID, err)
			return
		}
		msg, err := encodeFrame(domain.EventPresenceUpdate, domain.PresenceUpdateEvent{OnlineUserIDs: online})
		if err != nil {
			return
		}
		client.enqueue(msg)

	default:
		log.Printf("unknown event: conn_id=%s event=%s", client.ID, frame.Event)
	}
}

func (h *Handler) disconnect(client *Client) {
	// The inbound context died with the connection; presence teardown still
	// has to run.
	ctx := context.Background()

	userID, wentOffline, err := h.Presence.MarkOffline(ctx, client.ID)
	if err != nil {
		log.Printf("mark offline failed: conn_id=%s err=%v", client.ID, err)
	}

	h.Hub.Unregister(client)
	close(client.send)

	if wentOffline {
		h.Hub.Broadcast(domain.EventUserDisconnected, domain.UserDisconnectedEvent{UserID: userID})
		if online, err := h.Presence.Snapshot(ctx); err == nil {
			h.Hub.Broadcast(domain.EventPresenceUpdate, domain.PresenceUpdateEvent{OnlineUserIDs: online})
		}
	}
	log.Printf("client disconnected: conn_id=%s", client.ID)
}
