package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"golang.org/x/net/websocket"

	"github.com/louisbranch/hollowfall/internal/world/audio"
	"github.com/louisbranch/hollowfall/internal/world/chat"
	"github.com/louisbranch/hollowfall/internal/world/entity"
	"github.com/louisbranch/hollowfall/internal/world/geo"
	"github.com/louisbranch/hollowfall/internal/world/interaction"
	"github.com/louisbranch/hollowfall/internal/world/progress"
)

const (
	maxFramePayloadBytes   = 16 * 1024
	maxDecodeErrorsPerConn = 3
)

// Frame types on the gateway wire.
const (
	frameChat     = "chat"
	frameSound    = "sound"
	frameProgress = "progress"

	frameUseTool = "use_tool"
	frameCancel  = "cancel"

	frameActionStarted   = "action_started"
	frameActionInstant   = "action_instant"
	frameActionRejected  = "action_rejected"
	frameActionCompleted = "action_completed"
	frameError           = "error"
)

type wsFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type wsErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type useToolPayload struct {
	Performer string  `json:"performer"`
	Tool      string  `json:"tool,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Seconds   float64 `json:"seconds"`
	Verb      string  `json:"verb,omitempty"`
	Locale    string  `json:"locale,omitempty"`
}

type cancelPayload struct {
	HandleID string `json:"handle_id"`
}

type actionStartedPayload struct {
	HandleID string `json:"handle_id"`
}

type chatMessagePayload struct {
	Sequence      int64  `json:"sequence"`
	Performer     string `json:"performer"`
	PerformerText string `json:"performer_text"`
	OthersText    string `json:"others_text"`
	At            string `json:"at"`
}

type soundPayload struct {
	Sequence int64   `json:"sequence"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pitch    float64 `json:"pitch"`
	At       string  `json:"at"`
}

type progressPayload struct {
	Type       string  `json:"type"`
	HandleID   string  `json:"handle_id"`
	Kind       string  `json:"kind"`
	Performer  string  `json:"performer"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	DurationMS int64   `json:"duration_ms"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(encoder *json.Encoder) *wsPeer {
	return &wsPeer{encoder: encoder}
}

func (p *wsPeer) writeFrame(frame wsFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

func (s *Server) addPeer(peer *wsPeer) {
	s.mu.Lock()
	s.peers[peer] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removePeer(peer *wsPeer) {
	s.mu.Lock()
	delete(s.peers, peer)
	s.mu.Unlock()
}

func (s *Server) broadcast(frameType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s frame: %v", frameType, err)
		return
	}
	frame := wsFrame{Type: frameType, Payload: raw}

	s.mu.Lock()
	targets := make([]*wsPeer, 0, len(s.peers))
	for peer := range s.peers {
		targets = append(targets, peer)
	}
	s.mu.Unlock()

	for _, peer := range targets {
		if err := peer.writeFrame(frame); err != nil {
			log.Printf("write %s frame: %v", frameType, err)
		}
	}
}

func (s *Server) handleWS(conn *websocket.Conn) {
	defer conn.Close()
	conn.MaxPayloadBytes = maxFramePayloadBytes

	peer := newWSPeer(json.NewEncoder(conn))
	s.addPeer(peer)
	defer s.removePeer(peer)

	for _, msg := range s.world.Chat.History(historyLimit) {
		if err := peer.writeFrame(wsFrame{Type: frameChat, Payload: mustMarshal(chatFramePayload(msg))}); err != nil {
			return
		}
	}

	decoder := json.NewDecoder(conn)
	decodeErrors := 0
	for {
		var frame wsFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			s.writeError(peer, frame.RequestID, "BAD_FRAME", "frame is not valid JSON")
			continue
		}

		switch frame.Type {
		case frameUseTool:
			s.handleUseTool(peer, frame)
		case frameCancel:
			s.handleCancel(peer, frame)
		default:
			s.writeError(peer, frame.RequestID, "UNKNOWN_FRAME", "unsupported frame type "+frame.Type)
		}
	}
}

func (s *Server) handleUseTool(peer *wsPeer, frame wsFrame) {
	var payload useToolPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		s.writeError(peer, frame.RequestID, "BAD_PAYLOAD", "use_tool payload is invalid")
		return
	}
	performer := entity.Ref(strings.TrimSpace(payload.Performer))
	if performer == entity.None {
		s.writeError(peer, frame.RequestID, "PERFORMER_REQUIRED", "performer is required")
		return
	}

	req := interaction.RequestAt(
		performer,
		entity.Ref(strings.TrimSpace(payload.Tool)),
		geo.Vec2{X: payload.X, Y: payload.Y},
		payload.Seconds,
	)
	msgs := s.messagesFor(payload.Locale, payload.Verb, performer)

	requestID := frame.RequestID
	// Set synchronously when the action is instantaneous; the dispatcher
	// invokes onSuccess before returning in that case.
	completed := false
	handle := s.world.Dispatcher.UseToolWithMessages(req, msgs, func() {
		completed = true
		if err := peer.writeFrame(wsFrame{Type: frameActionCompleted, RequestID: requestID}); err != nil {
			log.Printf("write completion frame: %v", err)
		}
	})

	switch {
	case handle != nil:
		payload := mustMarshal(actionStartedPayload{HandleID: handle.ID()})
		_ = peer.writeFrame(wsFrame{Type: frameActionStarted, RequestID: requestID, Payload: payload})
	case completed:
		_ = peer.writeFrame(wsFrame{Type: frameActionInstant, RequestID: requestID})
	default:
		_ = peer.writeFrame(wsFrame{Type: frameActionRejected, RequestID: requestID})
	}
}

func (s *Server) handleCancel(peer *wsPeer, frame wsFrame) {
	var payload cancelPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil || strings.TrimSpace(payload.HandleID) == "" {
		s.writeError(peer, frame.RequestID, "BAD_PAYLOAD", "cancel payload is invalid")
		return
	}
	if err := s.world.Progress.Cancel(payload.HandleID); err != nil {
		s.writeError(peer, frame.RequestID, "HANDLE_UNKNOWN", "no pending action for handle")
	}
}

func (s *Server) writeError(peer *wsPeer, requestID, code, message string) {
	payload := mustMarshal(wsErrorPayload{Code: code, Message: message})
	if err := peer.writeFrame(wsFrame{Type: frameError, RequestID: requestID, Payload: payload}); err != nil {
		log.Printf("write error frame: %v", err)
	}
}

func chatFramePayload(msg chat.Message) chatMessagePayload {
	return chatMessagePayload{
		Sequence:      msg.Sequence,
		Performer:     string(msg.Performer),
		PerformerText: msg.PerformerText,
		OthersText:    msg.OthersText,
		At:            msg.At.Format(timeFormat),
	}
}

func soundFramePayload(snd audio.Sound) soundPayload {
	return soundPayload{
		Sequence: snd.Sequence,
		Name:     snd.Name,
		X:        snd.Position.X,
		Y:        snd.Position.Y,
		Pitch:    snd.Pitch,
		At:       snd.At.Format(timeFormat),
	}
}

func progressFramePayload(event progress.Event) progressPayload {
	return progressPayload{
		Type:       string(event.Type),
		HandleID:   event.HandleID,
		Kind:       event.Kind,
		Performer:  string(event.Performer),
		X:          event.Position.X,
		Y:          event.Position.Y,
		DurationMS: event.Duration.Milliseconds(),
	}
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

func mustMarshal(payload any) json.RawMessage {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payload types are plain structs; marshal cannot fail at runtime.
		panic(err)
	}
	return raw
}
