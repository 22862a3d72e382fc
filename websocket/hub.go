package websocket

import (
	"log"
	"sync"

	"github.com/dheerajgaurgithub/swachhcare/events"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// The hub pushes live booking-status updates to connected customers and
// workers. One connection per user; a newer connection replaces the old one.

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)

// EventListener feeds domain events into the hub. Registered with the
// events dispatcher at startup.
func EventListener(e events.Event) {
	push(e.CustomerID, e)
	if e.WorkerID != nil {
		push(*e.WorkerID, e)
	}
}

func push(userID uuid.UUID, e events.Event) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(e); err != nil {
		log.Printf("Error pushing event to client %s: %v", userID, err)
		conn.Close()
		clientsMu.Lock()
		if current, ok := clients[userID]; ok && current == conn {
			delete(clients, userID)
		}
		clientsMu.Unlock()
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		}
	}
}
