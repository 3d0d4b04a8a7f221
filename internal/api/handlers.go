package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xtding233/arcade-backend/internal/service"
)

type createWheelReq struct {
	Game       string `json:"game"`
	ClientSeed string `json:"client_seed,omitempty"`
}

type topUpReq struct {
	Pack string `json:"pack"`
}

type createRunReq struct {
	Game   string `json:"game"`
	Player string `json:"player,omitempty"`
}

func (s *Server) handleCreateWheel(w http.ResponseWriter, r *http.Request) {
	var req createWheelReq
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Game == "" {
		req.Game = "classic-wheel"
	}
	view, err := s.svc.CreateWheel(r.Context(), req.Game, req.ClientSeed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleWheelStatus(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.WheelStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCloseWheel(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.CloseWheel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Spin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpReq
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.svc.TopUp(r.Context(), chi.URLParam(r, "id"), req.Pack)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePlanTopUp(w http.ResponseWriter, r *http.Request) {
	spins, err := parseInt(r, "spins")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if spins == 0 {
		spins = 1
	}
	plan, err := s.svc.PlanTopUp(r.Context(), chi.URLParam(r, "id"), spins)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := parseInt(r, "limit")
	if err != nil {
		s.writeError(w, err)
		return
	}
	spins, err := s.svc.History(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, spins)
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunReq
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Game == "" {
		req.Game = "runner"
	}
	view, err := s.svc.CreateRun(r.Context(), req.Game, req.Player)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.RunStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req service.TickRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.svc.Tick(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	game := r.URL.Query().Get("game")
	if game == "" {
		game = "runner"
	}
	limit, err := parseInt(r, "limit")
	if err != nil {
		s.writeError(w, err)
		return
	}
	runs, err := s.svc.TopRuns(r.Context(), game, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}
