package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"quiz-reply-service/internal/app"
)

type WSHandler struct {
	service  *app.ChatService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ChatService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type textPayload struct {
	Text string `json:"text"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

type responsesPayload struct {
	Messages []string `json:"messages"`
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz turn per inbound message.
// Messages on a connection are handled in order, so a single writer is enough.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(outboundMessage[sessionPayload]{Type: "session", Payload: sessionPayload{SessionID: sessionID}}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var out any
		switch inbound.Type {
		case "message":
			var payload textPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid message payload"}}
				break
			}
			reply, err := h.service.Reply(r.Context(), sessionID, payload.Text)
			if err != nil {
				log.Printf("ws reply session %s: %v", sessionID, err)
				out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				break
			}
			out = outboundMessage[responsesPayload]{Type: "responses", Payload: responsesPayload{
				Messages: reply.Responses,
				Status:   string(reply.Status),
				Error:    errorCode(reply.Err),
			}}
		case "reset":
			if err := h.service.Reset(r.Context(), sessionID); err != nil {
				out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				break
			}
			out = outboundMessage[sessionPayload]{Type: "session", Payload: sessionPayload{SessionID: sessionID}}
		default:
			out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}

		if err := conn.WriteJSON(out); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}
