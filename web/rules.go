package web

import (
	"net/http"

	"github.com/robinvdvleuten/categorizer/rules"
)

// RulesResponse is the JSON response structure for the rules endpoint.
type RulesResponse struct {
	Count  int          `json:"count"`
	Payees *rules.Table `json:"payees"`
}

type VersionResponse struct {
	Version   string `json:"version"`
	CommitSHA string `json:"commit"`
}

// handleGetRules handles GET requests to /api/rules.
func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	table := s.resolvers.Resolver().Dump()
	writeJSONResponse(w, &RulesResponse{Count: table.Len(), Payees: table})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, &VersionResponse{Version: s.Version, CommitSHA: s.CommitSHA})
}
