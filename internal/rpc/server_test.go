package rpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/arcade-backend/internal/game"
	"github.com/xtding233/arcade-backend/internal/outcome"
	"github.com/xtding233/arcade-backend/internal/service"
)

func dial(t *testing.T, draw float64) *grpc.ClientConn {
	t.Helper()
	svc := service.New(game.NewLoader("../../configs"),
		service.WithRNG(func() outcome.RandomSource { return outcome.Sequence(draw) }))
	gs := NewGRPCServer(NewServer(svc, nil))

	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func call(t *testing.T, conn *grpc.ClientConn, name string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out := new(structpb.Struct)
	err = conn.Invoke(ctx, FullMethod(name), req, out)
	return out, err
}

func TestHealthServing(t *testing.T) {
	conn := dial(t, 0.1)
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status %s", resp.GetStatus())
	}
}

func TestWheelOverGRPC(t *testing.T) {
	conn := dial(t, 0.1)

	view, err := call(t, conn, "CreateWheel", map[string]any{"game": "classic-wheel"})
	if err != nil {
		t.Fatal(err)
	}
	id := view.GetFields()["id"].GetStringValue()
	if id == "" {
		t.Fatalf("no id in %v", view)
	}
	res, err := call(t, conn, "Spin", map[string]any{"id": id})
	if err != nil {
		t.Fatal(err)
	}
	prize := res.GetFields()["prize"].GetStructValue()
	if prize.GetFields()["name"].GetStringValue() != "10 Coins" {
		t.Fatalf("prize %v", prize)
	}
	top, err := call(t, conn, "TopUp", map[string]any{"id": id, "pack": "pouch"})
	if err != nil {
		t.Fatal(err)
	}
	if top.GetFields()["purchase"].GetStructValue().GetFields()["unit_coins"].GetNumberValue() != 1150 {
		t.Fatalf("top-up %v", top)
	}
	if _, err := call(t, conn, "PlanTopUp", map[string]any{"id": id, "spins": 5_000_000}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("oversized plan: %v", err)
	}
	games, err := call(t, conn, "ListGames", nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(games.GetFields()["games"].GetListValue().GetValues()); n != 4 {
		t.Fatalf("games %d", n)
	}
}

func TestRunnerOverGRPC(t *testing.T) {
	conn := dial(t, 0.5)

	view, err := call(t, conn, "CreateRun", map[string]any{"game": "runner"})
	if err != nil {
		t.Fatal(err)
	}
	id := view.GetFields()["id"].GetStringValue()
	tick, err := call(t, conn, "Tick", map[string]any{"id": id, "frames": 2, "input": "left"})
	if err != nil {
		t.Fatal(err)
	}
	if tick.GetFields()["frames"].GetNumberValue() != 2 {
		t.Fatalf("tick %v", tick)
	}
	state := tick.GetFields()["state"].GetStructValue()
	if state.GetFields()["player_lane"].GetNumberValue() != 0 {
		t.Fatalf("player should be in lane 0: %v", state)
	}
	if _, err := call(t, conn, "TopRuns", map[string]any{"game": "runner"}); err != nil {
		t.Fatal(err)
	}
}

func TestErrorCodes(t *testing.T) {
	conn := dial(t, 0.1)

	cases := []struct {
		method string
		in     map[string]any
		want   codes.Code
	}{
		{"CreateWheel", map[string]any{}, codes.InvalidArgument},
		{"CreateWheel", map[string]any{"game": "nope"}, codes.NotFound},
		{"Spin", map[string]any{"id": "missing"}, codes.NotFound},
		{"Tick", map[string]any{"id": "missing"}, codes.NotFound},
		{"TopUp", map[string]any{"id": "missing"}, codes.InvalidArgument},
		{"TopUp", map[string]any{"id": "missing", "pack": "handful"}, codes.NotFound},
		{"PlanTopUp", map[string]any{"id": "missing", "spins": 1}, codes.NotFound},
	}
	for _, c := range cases {
		_, err := call(t, conn, c.method, c.in)
		if got := status.Code(err); got != c.want {
			t.Errorf("%s %v: code %s want %s", c.method, c.in, got, c.want)
		}
	}

	run, err := call(t, conn, "CreateRun", map[string]any{"game": "runner"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = call(t, conn, "Tick", map[string]any{"id": run.GetFields()["id"].GetStringValue(), "input": "up"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad input: %v", err)
	}
}
