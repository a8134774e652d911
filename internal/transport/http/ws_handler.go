package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"arith-recall/internal/app"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logrus.WithField("component", "ws"),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// answerPayload.Value is the raw text the player typed; a bare JSON number is accepted too.
type answerPayload struct {
	ProblemID int             `json:"problemId"`
	Value     json.RawMessage `json:"value"`
}

type saveScorePayload struct {
	Name string `json:"name"`
}

type answerResult struct {
	ProblemID int  `json:"problemId"`
	Correct   bool `json:"correct"`
	Score     int  `json:"score"`
	Finished  bool `json:"finished"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

func errorMessage(code, message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorBody{Code: code, Message: message}}
}

// ServeWS upgrades the request and binds the connection to one game.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		gameID = uuid.NewString()
	}
	log := h.log.WithField("game", gameID)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	engine := h.service.Join(ctx, gameID)
	defer h.service.Leave(ctx, gameID)
	updates, cancel := engine.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer; after a failed write the connection is closed and the queue drained.
	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debugf("ws write error: %v", err)
				failed = true
				_ = conn.Close()
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		reported := false
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				msgs := []outboundMessage[any]{{Type: "state", Payload: snap}}
				if snap.Report != nil && !reported {
					msgs = append(msgs, outboundMessage[any]{Type: "report", Payload: snap.Report})
				}
				reported = snap.Report != nil
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.handle(r, gameID, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle runs one inbound command. State changes reach the client through the
// subscription, so only direct replies are returned here.
func (h *WSHandler) handle(r *http.Request, gameID string, inbound inboundMessage) (outboundMessage[any], bool) {
	ctx := r.Context()
	switch inbound.Type {
	case "start":
		if _, err := h.service.Start(ctx, gameID); err != nil {
			return errorMessage(wsErrorCode(err), err.Error()), true
		}
		return outboundMessage[any]{}, false
	case "reset":
		if _, err := h.service.Reset(ctx, gameID); err != nil {
			return errorMessage(wsErrorCode(err), err.Error()), true
		}
		return outboundMessage[any]{}, false
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage(codeBadRequest, "invalid answer payload"), true
		}
		ack, err := h.service.SubmitAnswer(ctx, gameID, payload.ProblemID, rawValue(payload.Value))
		if err != nil {
			return errorMessage(wsErrorCode(err), err.Error()), true
		}
		return outboundMessage[any]{Type: "answerResult", Payload: answerResult{
			ProblemID: ack.ProblemID,
			Correct:   ack.Correct,
			Score:     ack.Score,
			Finished:  ack.Finished,
		}}, true
	case "saveScore":
		var payload saveScorePayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage(codeBadRequest, "invalid saveScore payload"), true
		}
		entries, err := h.service.SaveScore(ctx, gameID, payload.Name)
		if err != nil {
			return errorMessage(wsErrorCode(err), err.Error()), true
		}
		return outboundMessage[any]{Type: "leaderboard", Payload: entries}, true
	default:
		return errorMessage(codeBadRequest, "unsupported message type"), true
	}
}

func rawValue(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(v))
}
