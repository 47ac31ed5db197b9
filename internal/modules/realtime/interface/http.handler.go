package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"salleYaFloor/internal/modules/realtime/domain"
	"salleYaFloor/internal/modules/realtime/infrastructure"
	resport "salleYaFloor/internal/modules/reservations/application/port"
	"salleYaFloor/internal/shared/auth"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func floorTopics() []string {
	return []string{
		domain.TopicReservationsSnapshot,
		domain.TopicReservationsCreated,
		domain.TopicReservationsUpdated,
		domain.TopicSystemPong,
		domain.TopicSystemError,
	}
}

// NewFloorStreamHandler serves GET /ws/floor/:token. The token may also
// arrive as a query parameter or Authorization header; path wins. A freshly
// attached client immediately receives the current reservation snapshot so
// it never renders an empty floor while waiting for the next refresh.
func NewFloorStreamHandler(
	hub *infrastructure.Hub,
	validator auth.TokenValidator,
	floor resport.FloorView,
	sendBuffer int,
) func(echo.Context) error {
	if sendBuffer <= 0 {
		sendBuffer = 8
	}

	return func(c echo.Context) error {
		token := strings.TrimSpace(c.Param("token"))
		if token == "" || token == "-" {
			token = auth.ExtractToken(c.Request(), "token")
		}

		claims, err := validator.Validate(token)
		if err != nil {
			status := http.StatusUnauthorized
			message := "invalid token"
			if errors.Is(err, auth.ErrMissingToken) {
				status = http.StatusBadRequest
				message = "missing token"
			}
			slog.Warn("ws connect rejected", slog.String("ip", c.RealIP()), slog.String("message", message))
			return echo.NewHTTPError(status, message)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws upgrade failed", slog.String("staff", claims.Subject), slog.Any("error", err))
			return err
		}

		staff := claims.Subject
		sessionID := claims.SessionID
		client := infrastructure.NewClient(hub, conn, staff, sessionID, sendBuffer)

		topics := floorTopics()
		hub.AttachClient(client, topics)

		go client.WritePump()
		go client.ReadPump()

		now := time.Now().UTC()
		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"sessionId": sessionID,
			},
			Data: map[string]any{
				"staff":  staff,
				"topics": topics,
				"roles":  claims.Roles,
			},
			Timestamp: now,
		})
		client.SendDomainMessage(&domain.Message{
			Topic:     domain.TopicReservationsSnapshot,
			Entity:    domain.EntityReservations,
			Action:    domain.ActionSnapshot,
			Data:      floor.Snapshot(),
			Timestamp: now,
		})

		slog.Info("ws connected", slog.String("staff", staff), slog.String("sessionId", sessionID), slog.String("ip", c.RealIP()))
		return nil
	}
}
