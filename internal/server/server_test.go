package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/outlndrr-pr/pixel-wars/internal/game"
)

func newTestRouter() (*gin.Engine, *game.Game) {
	gin.SetMode(gin.TestMode)
	g := game.New(game.Config{})
	b := NewBroadcaster(g)
	return SetupRouter(b, g, nil), g
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestTeamsEndpoint(t *testing.T) {
	r, _ := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/teams", nil))

	var resp struct {
		Teams []game.Team `json:"teams"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Teams) != 4 {
		t.Fatalf("got %d teams, want 4", len(resp.Teams))
	}
}

func TestStatsEndpoint(t *testing.T) {
	r, g := newTestRouter()
	u := g.EnsureUser("", true)
	g.JoinTeam(u.ID, game.TeamRed)
	g.PlacePixel(u.ID, 5, 5)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/stats", nil))

	var stats game.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalPixels != 1 {
		t.Fatalf("totalPixels = %d, want 1", stats.TotalPixels)
	}
	if stats.Counts[game.TeamRed] != 1 {
		t.Fatalf("red count = %d, want 1", stats.Counts[game.TeamRed])
	}
	if len(stats.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(stats.Events))
	}
}

func TestCanvasEndpoint(t *testing.T) {
	r, g := newTestRouter()
	u := g.EnsureUser("", true)
	g.JoinTeam(u.ID, game.TeamBlue)
	g.PlacePixel(u.ID, 7, 9)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/canvas", nil))

	var resp struct {
		Width  int                   `json:"width"`
		Height int                   `json:"height"`
		Pixels map[string]game.Pixel `json:"pixels"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Width != game.GridWidth || resp.Height != game.GridHeight {
		t.Fatalf("bounds = %dx%d, want %dx%d", resp.Width, resp.Height, game.GridWidth, game.GridHeight)
	}
	p, ok := resp.Pixels["7,9"]
	if !ok || p.Team != game.TeamBlue {
		t.Fatalf(`pixels["7,9"] = %+v, want blue pixel`, p)
	}
}

func TestUserEndpoint(t *testing.T) {
	r, g := newTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/users/nobody", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user status = %d, want 404", w.Code)
	}

	u := g.EnsureUser("", true)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/users/"+u.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("known user status = %d, want 200", w.Code)
	}
	var resp struct {
		User       game.User `json:"user"`
		CooldownMs int64     `json:"cooldownMs"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.ID != u.ID || resp.CooldownMs != 0 {
		t.Fatalf("resp = %+v", resp)
	}
}
