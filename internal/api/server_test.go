package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xtding233/arcade-backend/internal/coins"
	"github.com/xtding233/arcade-backend/internal/game"
	"github.com/xtding233/arcade-backend/internal/outcome"
	"github.com/xtding233/arcade-backend/internal/service"
)

func newTestServer(t *testing.T, draw float64) *httptest.Server {
	t.Helper()
	svc := service.New(game.NewLoader("../../configs"),
		service.WithRNG(func() outcome.RandomSource { return outcome.Sequence(draw) }))
	srv := httptest.NewServer(NewServer(svc, nil, nil).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestHealthAndGames(t *testing.T) {
	srv := newTestServer(t, 0.1)

	var health map[string]any
	if code := do(t, "GET", srv.URL+"/health", "", &health); code != http.StatusOK || health["status"] != "ok" {
		t.Fatalf("health %d %v", code, health)
	}
	var games []game.Info
	if code := do(t, "GET", srv.URL+"/games", "", &games); code != http.StatusOK || len(games) != 4 {
		t.Fatalf("games %d %+v", code, games)
	}
}

func TestWheelFlow(t *testing.T) {
	srv := newTestServer(t, 0.1)

	var view service.WheelView
	if code := do(t, "POST", srv.URL+"/wheel/sessions", `{"game":"classic-wheel"}`, &view); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	var res service.SpinResult
	if code := do(t, "POST", srv.URL+"/wheel/sessions/"+view.ID+"/spin", "", &res); code != http.StatusOK {
		t.Fatalf("spin: %d", code)
	}
	if res.Prize.Name != "10 Coins" || res.Stats.TotalSpins != 1 {
		t.Fatalf("spin result %+v", res)
	}
	var status service.WheelView
	if code := do(t, "GET", srv.URL+"/wheel/sessions/"+view.ID, "", &status); code != http.StatusOK {
		t.Fatalf("status: %d", code)
	}
	if !status.Stats.Balance.Equal(res.Stats.Balance) {
		t.Fatalf("balance mismatch %s vs %s", status.Stats.Balance, res.Stats.Balance)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t, 0.99)

	var e errorResp
	if code := do(t, "POST", srv.URL+"/wheel/sessions", `{"game":"nope"}`, &e); code != http.StatusNotFound || e.Code != "unknown_game" {
		t.Fatalf("unknown game: %d %+v", code, e)
	}
	if code := do(t, "POST", srv.URL+"/wheel/sessions/missing/spin", "", &e); code != http.StatusNotFound || e.Code != "not_found" {
		t.Fatalf("missing session: %d %+v", code, e)
	}
	if code := do(t, "POST", srv.URL+"/wheel/sessions", `{"game":`, &e); code != http.StatusBadRequest {
		t.Fatalf("bad body: %d", code)
	}

	var view service.WheelView
	do(t, "POST", srv.URL+"/wheel/sessions", "", &view)
	for i := 0; i < 10; i++ {
		do(t, "POST", srv.URL+"/wheel/sessions/"+view.ID+"/spin", "", nil)
	}
	if code := do(t, "POST", srv.URL+"/wheel/sessions/"+view.ID+"/spin", "", &e); code != http.StatusPaymentRequired {
		t.Fatalf("broke: %d %+v", code, e)
	}

	var plan coins.Plan
	if code := do(t, "GET", srv.URL+"/wheel/sessions/"+view.ID+"/topup/plan?spins=3", "", &plan); code != http.StatusOK || plan.Coins < 30 {
		t.Fatalf("plan: %d %+v", code, plan)
	}
	if code := do(t, "GET", srv.URL+"/wheel/sessions/"+view.ID+"/topup/plan?spins=5000000", "", &e); code != http.StatusBadRequest {
		t.Fatalf("oversized plan: %d %+v", code, e)
	}
	if code := do(t, "POST", srv.URL+"/wheel/sessions/"+view.ID+"/topup", `{"pack":"vault"}`, &e); code != http.StatusNotFound || e.Code != "unknown_pack" {
		t.Fatalf("unknown pack: %d %+v", code, e)
	}
	var topped service.TopUpResult
	if code := do(t, "POST", srv.URL+"/wheel/sessions/"+view.ID+"/topup", `{"pack":"handful"}`, &topped); code != http.StatusOK || !topped.Purchase.FirstTime {
		t.Fatalf("top-up: %d %+v", code, topped)
	}
	if code := do(t, "POST", srv.URL+"/wheel/sessions/"+view.ID+"/spin", "", nil); code != http.StatusOK {
		t.Fatalf("spin after top-up: %d", code)
	}
}

func TestRunnerFlow(t *testing.T) {
	srv := newTestServer(t, 0.5)

	var run service.RunView
	if code := do(t, "POST", srv.URL+"/runner/runs", `{"game":"runner-plus","player":"bo"}`, &run); code != http.StatusCreated {
		t.Fatalf("create: %d", code)
	}
	var tick service.TickView
	if code := do(t, "POST", srv.URL+"/runner/runs/"+run.ID+"/tick", `{"frames":3,"input":"right"}`, &tick); code != http.StatusOK {
		t.Fatalf("tick: %d", code)
	}
	if tick.Frames != 3 || tick.State.PlayerLane != 2 {
		t.Fatalf("tick %+v", tick)
	}
	var e errorResp
	if code := do(t, "POST", srv.URL+"/runner/runs/"+run.ID+"/tick", `{"input":"up"}`, &e); code != http.StatusBadRequest {
		t.Fatalf("bad input: %d", code)
	}
	if code := do(t, "POST", srv.URL+"/runner/runs/"+run.ID+"/restart", "", &run); code != http.StatusOK || run.State.Frames != 0 {
		t.Fatalf("restart: %d %+v", code, run.State)
	}
	var top []any
	if code := do(t, "GET", srv.URL+"/runner/leaderboard?game=runner-plus&limit=5", "", &top); code != http.StatusOK {
		t.Fatalf("leaderboard: %d", code)
	}
	if code := do(t, "GET", srv.URL+"/runner/leaderboard?limit=x", "", &e); code != http.StatusBadRequest {
		t.Fatalf("bad limit: %d", code)
	}
}
