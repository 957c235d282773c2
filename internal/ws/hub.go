package ws

import (
	"encoding/json"

	"go-gudang-ws/internal/notify"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Registration subscribes one websocket connection, optionally narrowed to a
// single item (from the ?item= query param).
type Registration struct {
	Conn *websocket.Conn
	Item string
}

// Hub bridges the notify broker to websocket clients: every aggregate event
// is marshalled once and fanned out to the connections whose filter matches.
// The hub itself is a bounded broker subscriber, so a burst of recomputes
// never blocks the ledger pipeline; it drops the oldest update instead.
type Hub struct {
	Register   chan Registration
	Unregister chan *websocket.Conn

	clients map[*websocket.Conn]string
	broker  *notify.Broker
	log     *zap.Logger
}

func NewHub(broker *notify.Broker, log *zap.Logger) *Hub {
	return &Hub{
		Register:   make(chan Registration),
		Unregister: make(chan *websocket.Conn),
		clients:    make(map[*websocket.Conn]string),
		broker:     broker,
		log:        log,
	}
}

type wsPayload struct {
	Type  string       `json:"type"`
	Event notify.Event `json:"event"`
}

// Run owns the client map; it exits when the broker closes.
func (h *Hub) Run() {
	sub := h.broker.Subscribe(64)

	for {
		select {
		case reg := <-h.Register:
			h.clients[reg.Conn] = reg.Item
			h.log.Info("ws client connected", zap.String("item_filter", reg.Item))

		case conn := <-h.Unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case ev, ok := <-sub.C:
			if !ok {
				for conn := range h.clients {
					conn.Close()
					delete(h.clients, conn)
				}
				return
			}
			msg, err := json.Marshal(wsPayload{Type: "stock_update", Event: ev})
			if err != nil {
				continue
			}
			for conn, item := range h.clients {
				if item != "" && item != ev.ItemName {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}
