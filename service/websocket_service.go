package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/uxmentor/uxmentor-be/types"
)

const wsReadDeadline = 60 * time.Second

// WebSocketService streams retrieval-augmented chat answers over a
// websocket connection.
type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewWebSocketService(chat *ChatService, logger *slog.Logger) *WebSocketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketService{
		chat:   chat,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024)
	conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Error("websocket read error", "error", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadDeadline))

		var req types.WebsocketRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			s.writeError(conn, "invalid request")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketPing:
			s.write(conn, types.WebSocketResponse{Type: types.TypeWebsocketPong})
		case types.TypeWebsocketChat:
			s.handleChatRequest(r, conn, req.Payload)
		default:
			s.writeError(conn, "unknown request type: "+req.Type)
		}
	}
}

func (s *WebSocketService) handleChatRequest(r *http.Request, conn *websocket.Conn, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.writeError(conn, "invalid chat payload")
		return
	}
	var chatPayload types.WebSocketChatPayload
	if err := json.Unmarshal(raw, &chatPayload); err != nil {
		s.writeError(conn, "invalid chat payload")
		return
	}

	s.write(conn, types.WebSocketResponse{
		Type:    types.TypeWebsocketProcessing,
		Payload: types.WebSocketProcessingResponse{Message: "Searching documents"},
	})

	_, err = s.chat.AskStream(r.Context(), chatPayload.Messages, func(response string) {
		if response == "" {
			return
		}
		s.write(conn, types.WebSocketResponse{
			Type:    types.TypeWebsocketChat,
			Payload: types.WebSocketChatResponse{Message: response},
		})
	})
	if err != nil {
		s.writeError(conn, err.Error())
	}
}

func (s *WebSocketService) write(conn *websocket.Conn, resp types.WebSocketResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Error("websocket write error", "error", err)
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	s.write(conn, types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorResponse{Message: message},
	})
}
