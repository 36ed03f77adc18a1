package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
)

const streamKeepalive = 30 * time.Second

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type StreamHandler interface {
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	jwtService jwt.Service
	hub        *sse.Hub
}

func NewStreamHandler(jwtService jwt.Service, hub *sse.Hub) StreamHandler {
	return &streamHandlerImpl{
		jwtService: jwtService,
		hub:        hub,
	}
}

// GetStreamToken issues a short-lived token an EventSource can pass as ?jwt=
func (h *streamHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(session.UserID, session.Role)
	if err != nil {
		slog.Error("Failed to generate stream token", "user_id", session.UserID, "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles the SSE connection carrying live check-in and check-out events
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	session, err := auth.SessionFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(attendanceService.ManagersTopic)
	defer func() {
		cleanup()
		slog.Info("Stream client disconnected", "user_id", session.UserID, "subscribers", h.hub.TotalSubscribers())
	}()
	slog.Info("Stream client connected", "user_id", session.UserID, "subscribers", h.hub.TotalSubscribers())

	// Send initial connection event
	if err := sse.WriteEvent(w, sse.Event{
		Event: "connected",
		Data:  map[string]string{"status": "connected", "user_id": session.UserID},
	}); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(w, event); err != nil {
				slog.Warn("Failed to write stream event", "user_id", session.UserID, "event", event.Event, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			if err := sse.WriteEvent(w, sse.Event{
				Event: "ping",
				Data:  map[string]int64{"timestamp": time.Now().Unix()},
			}); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
