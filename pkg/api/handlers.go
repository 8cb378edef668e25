package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dixieflatline76/SmartRes/pkg/resolution"
	"github.com/dixieflatline76/SmartRes/util/log"
)

// calculateRequest is the wire form of one input snapshot. DivisibleBy is a
// host concern layered on top of the engine's base dimensions.
type calculateRequest struct {
	resolution.Request
	DivisibleBy int `json:"divisible_by,omitempty"`
}

// calculateResponse carries the engine result plus the divisor-snapped
// preview dimensions. The snap uses round half to even so the preview is
// bit-exact with the authoritative backend.
type calculateResponse struct {
	*resolution.Result
	DivisibleBy int `json:"divisible_by"`
	PreviewW    int `json:"preview_w"`
	PreviewH    int `json:"preview_h"`
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "running"
	if s.shuttingDown.Value() {
		status = "shutting_down"
	}

	s.infoMu.RLock()
	payload := map[string]any{
		"status":  status,
		"version": s.version,
		"clients": s.clientCount.Value(),
	}
	if s.updateInfo != nil {
		payload["update"] = s.updateInfo
	}
	s.infoMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCalculate resolves a posted snapshot and broadcasts the outcome to
// all WebSocket clients.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.recalculate(req)
	if err != nil {
		if errors.Is(err, resolution.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.broadcast(map[string]any{
		"type":   "resolution_update",
		"result": resp,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// recalculate runs one snapshot through the engine, honoring the manual
// invalidation contract: a snapshot that differs from the previous one drops
// the engine's cache slot first.
func (s *Server) recalculate(req calculateRequest) (*calculateResponse, error) {
	if req.DropdownRatio == "" {
		req.DropdownRatio = s.defaultDropdown
	}

	s.lastReqMu.Lock()
	if s.lastReq == nil || !s.lastReq.Equal(req.Request) {
		s.calc.InvalidateCache()
		snapshot := req.Request
		s.lastReq = &snapshot
	}
	s.lastReqMu.Unlock()

	res, err := s.calc.Calculate(req.Request)
	if err != nil {
		return nil, err
	}

	div := req.DivisibleBy
	if div == 0 {
		div = s.divisibleBy
	}

	return &calculateResponse{
		Result:      res,
		DivisibleBy: div,
		PreviewW:    resolution.SnapToDivisor(res.BaseW, div),
		PreviewH:    resolution.SnapToDivisor(res.BaseH, div),
	}, nil
}

// wsMessage is the envelope for inbound WebSocket messages.
type wsMessage struct {
	Type    string           `json:"type"`
	Request *calculateRequest `json:"request,omitempty"`
}

// handleWebSocket upgrades the connection and serves the push channel.
// Clients may send ping messages and calculate requests; every successful
// calculation is pushed back on the same connection.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	c := s.registerClient(conn)
	defer s.unregisterClient(c)

	c.writeMu.Lock()
	err = conn.WriteJSON(map[string]string{"type": "hello", "client_id": c.id})
	c.writeMu.Unlock()
	if err != nil {
		return
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "ping":
			c.writeMu.Lock()
			err = conn.WriteJSON(map[string]string{"type": "pong"})
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case "calculate":
			if msg.Request == nil {
				continue
			}
			// Redraw-driven bursts beyond the limiter are dropped, the UI
			// will send another snapshot on its next tick anyway.
			if !c.limiter.Allow() {
				continue
			}
			resp, err := s.recalculate(*msg.Request)
			if err != nil {
				c.writeMu.Lock()
				werr := conn.WriteJSON(map[string]string{"type": "error", "message": err.Error()})
				c.writeMu.Unlock()
				if werr != nil {
					return
				}
				continue
			}
			c.writeMu.Lock()
			err = conn.WriteJSON(map[string]any{"type": "resolution_update", "result": resp})
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		default:
			// Unknown message types are ignored.
		}
	}
}
