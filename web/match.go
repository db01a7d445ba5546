package web

import (
	"encoding/json"
	"net/http"

	"github.com/robinvdvleuten/categorizer/rules"
)

// maxBatch bounds the number of queries in one POST /api/match.
const maxBatch = 10000

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type MatchRequest struct {
	Payee       string `json:"payee"`
	Description string `json:"description"`
}

type MatchResponse struct {
	Payee       string  `json:"payee"`
	Description string  `json:"description"`
	Matched     bool    `json:"matched"`
	Source      string  `json:"source"`
	Destination *string `json:"destination"`
	Line        int     `json:"line,omitempty"`
}

// Match resolves q against r.
func Match(r *rules.Resolver, q MatchRequest) MatchResponse {
	rule, ok := r.Resolve(rules.NewToken(q.Payee), rules.NewToken(q.Description))
	return NewMatchResponse(q, rule, ok)
}

// NewMatchResponse reports the outcome of resolving q to rule.
func NewMatchResponse(q MatchRequest, rule rules.Rule, ok bool) MatchResponse {
	resp := MatchResponse{Payee: q.Payee, Description: q.Description}
	if !ok {
		return resp
	}
	resp.Matched = true
	resp.Source = rule.Accounts.Source
	resp.Destination = rule.Accounts.Destination
	resp.Line = rule.Line
	return resp
}

// handleGetMatch handles GET requests to /api/match.
// Missing payee or description parameters count as unknown.
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	q := MatchRequest{
		Payee:       r.URL.Query().Get("payee"),
		Description: r.URL.Query().Get("description"),
	}
	writeJSONResponse(w, Match(s.resolvers.Resolver(), q))
}

// handlePostMatch handles POST requests to /api/match with a JSON array of
// queries. All queries of a batch are answered by the same table.
func (s *Server) handlePostMatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 8<<20)

	var queries []MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&queries); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(queries) > maxBatch {
		http.Error(w, "Too many queries", http.StatusRequestEntityTooLarge)
		return
	}

	resolver := s.resolvers.Resolver()
	results := make([]MatchResponse, len(queries))
	for i, q := range queries {
		results[i] = Match(resolver, q)
	}
	writeJSONResponse(w, results)
}
