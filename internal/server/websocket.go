package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/outlndrr-pr/pixel-wars/internal/game"
	"github.com/outlndrr-pr/pixel-wars/internal/logging"
	"github.com/outlndrr-pr/pixel-wars/internal/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Actions allowed per minute, matching the old token-bucket limits.
const (
	authActionsPerMinute = 10
	anonActionsPerMinute = 5
)

type HelloAction struct {
	Action        string `json:"action"`
	UserID        string `json:"userId"`
	Authenticated bool   `json:"authenticated"`
}

type JoinTeamAction struct {
	Action string `json:"action"`
	Team   string `json:"team"`
}

type SetColorAction struct {
	Action string `json:"action"`
	Color  string `json:"color"`
}

type PlaceAction struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type helloReply struct {
	Action            string                `json:"action"`
	User              game.User             `json:"user"`
	Teams             []game.Team           `json:"teams"`
	Width             int                   `json:"width"`
	Height            int                   `json:"height"`
	CooldownMs        int64                 `json:"cooldownMs"`
	ColorBombMs       int64                 `json:"colorBombMs"`
	TerritoryShieldMs int64                 `json:"territoryShieldMs"`
	Pixels            map[string]game.Pixel `json:"pixels"`
}

type placeReply struct {
	Action       string              `json:"action"`
	Code         game.PlaceCode      `json:"code"`
	Pixel        *game.Pixel         `json:"pixel,omitempty"`
	CooldownMs   int64               `json:"cooldownMs"`
	Achievements []*game.Achievement `json:"achievements,omitempty"`
}

func newLimiter(authenticated bool) *rate.Limiter {
	perMinute := anonActionsPerMinute
	if authenticated {
		perMinute = authActionsPerMinute
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

func HandleWebsocket(b *Broadcaster, g *game.Game, st *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WS upgrade error:", err)
			return
		}

		b.Register(conn)

		// Session state for this connection. Everything before a hello is
		// ignored apart from stats requests.
		var userID string
		limiter := newLimiter(false)

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				b.Unregister(conn)
				break
			}
			if msgType != websocket.TextMessage {
				continue
			}

			var baseAction map[string]interface{}
			if err := json.Unmarshal(msg, &baseAction); err != nil {
				log.Println("JSON parse error:", err)
				continue
			}
			action, ok := baseAction["action"].(string)
			if !ok {
				continue
			}

			switch action {
			case "hello":
				var hello HelloAction
				json.Unmarshal(msg, &hello)
				u := g.EnsureUser(hello.UserID, !hello.Authenticated)
				userID = u.ID
				limiter = newLimiter(hello.Authenticated)
				persistUser(c.Request.Context(), st, g, userID)

				bomb, shield := g.PowerUpCooldowns(userID)
				b.SendJSONTo(conn, helloReply{
					Action:            "hello",
					User:              u,
					Teams:             game.Teams,
					Width:             game.GridWidth,
					Height:            game.GridHeight,
					CooldownMs:        g.CooldownRemaining(userID).Milliseconds(),
					ColorBombMs:       bomb.Milliseconds(),
					TerritoryShieldMs: shield.Milliseconds(),
					Pixels:            g.CanvasSnapshot(),
				})

			case "join_team":
				if userID == "" || !allow(b, conn, limiter) {
					continue
				}
				var join JoinTeamAction
				json.Unmarshal(msg, &join)
				if g.JoinTeam(userID, game.TeamID(join.Team)) {
					persistUser(c.Request.Context(), st, g, userID)
					if u, ok := g.UserState(userID); ok {
						b.SendJSONTo(conn, map[string]any{"action": "user", "user": u})
					}
					b.BroadcastStats()
				}

			case "set_color":
				if userID == "" || !allow(b, conn, limiter) {
					continue
				}
				var set SetColorAction
				json.Unmarshal(msg, &set)
				if !g.SetColor(userID, set.Color) {
					logging.Debugf("rejected color %q from %s", set.Color, userID)
				}

			case "place":
				if userID == "" || !allow(b, conn, limiter) {
					continue
				}
				var place PlaceAction
				json.Unmarshal(msg, &place)
				res := g.PlacePixel(userID, place.X, place.Y)
				b.SendJSONTo(conn, placeReply{
					Action:       "place_result",
					Code:         res.Code,
					Pixel:        res.Pixel,
					CooldownMs:   res.Cooldown.Milliseconds(),
					Achievements: res.Completed,
				})
				if res.Code == game.PlaceAccepted {
					b.BroadcastPixels([]game.Pixel{*res.Pixel})
					persistUser(c.Request.Context(), st, g, userID)
					persistPixels(c.Request.Context(), st, []game.Pixel{*res.Pixel})
				}

			case "color_bomb":
				if userID == "" || !allow(b, conn, limiter) {
					continue
				}
				var place PlaceAction
				json.Unmarshal(msg, &place)
				res := g.UseColorBomb(userID, place.X, place.Y)
				b.SendJSONTo(conn, map[string]any{"action": "color_bomb_result", "code": res.Code, "pixels": res.Pixels})
				if res.Code == game.PlaceAccepted {
					b.BroadcastPixels(res.Pixels)
					b.BroadcastStats()
					persistPixels(c.Request.Context(), st, res.Pixels)
					persistPowerUpCooldown(c.Request.Context(), st, g, userID, game.PowerUpColorBomb)
				}

			case "territory_shield":
				if userID == "" || !allow(b, conn, limiter) {
					continue
				}
				var place PlaceAction
				json.Unmarshal(msg, &place)
				res := g.UseTerritoryShield(userID, place.X, place.Y)
				b.SendJSONTo(conn, map[string]any{"action": "territory_shield_result", "code": res.Code, "powerUp": res.PowerUp})
				if res.Code == game.PlaceAccepted {
					b.BroadcastStats()
					persistPowerUpCooldown(c.Request.Context(), st, g, userID, game.PowerUpTerritoryShield)
				}

			case "stats":
				b.sendStatsTo(conn)
			}
		}
	}
}

// allow enforces the per-connection action budget. Over-budget actions get a
// note instead of silence so clients can back off.
func allow(b *Broadcaster, conn *websocket.Conn, limiter *rate.Limiter) bool {
	if limiter.Allow() {
		return true
	}
	b.SendJSONTo(conn, map[string]any{"action": "rate_limited"})
	return false
}
