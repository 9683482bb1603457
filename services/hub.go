package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// ResultsHub fans graded-submission summaries out to admin dashboards
// watching an exam's live results feed.
type ResultsHub struct {
	clients    map[*ResultsClient]bool
	register   chan *ResultsClient
	unregister chan *ResultsClient
	mutex      sync.RWMutex
}

type ResultsClient struct {
	hub    *ResultsHub
	socket *websocket.Conn
	send   chan []byte
	examID string
}

type resultsMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewResultsHub() *ResultsHub {
	return &ResultsHub{
		clients:    make(map[*ResultsClient]bool),
		register:   make(chan *ResultsClient),
		unregister: make(chan *ResultsClient),
	}
}

func (h *ResultsHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Results subscriber registered for exam %s - total subscribers: %d", client.examID, len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Results subscriber unregistered for exam %s - total subscribers: %d", client.examID, len(h.clients))
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastResult pushes a submission summary to every subscriber of the
// given exam. A subscriber with a full send buffer is dropped.
func (h *ResultsHub) BroadcastResult(examID string, payload interface{}) {
	data, err := json.Marshal(resultsMessage{Type: "submission_graded", Payload: payload})
	if err != nil {
		log.Printf("Error marshaling results message: %v", err)
		return
	}

	h.mutex.Lock()
	for client := range h.clients {
		if client.examID != examID {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
	h.mutex.Unlock()
}

// RegisterClient attaches a websocket connection to an exam's results feed
// and starts its read/write pumps.
func (h *ResultsHub) RegisterClient(conn *websocket.Conn, examID string) {
	client := &ResultsClient{
		hub:    h,
		socket: conn,
		send:   make(chan []byte, 16),
		examID: examID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *ResultsClient) writePump() {
	defer c.socket.Close()
	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump drains the connection; subscribers never send anything useful, so
// the first read error is taken as a disconnect.
func (c *ResultsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}
