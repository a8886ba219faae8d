package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pokedex "github.com/ferro-labs/pokedex"
	"github.com/ferro-labs/pokedex/internal/compare"
	"github.com/ferro-labs/pokedex/internal/logging"
	"github.com/ferro-labs/pokedex/pokeapi"
)

func (s *server) listPokemon(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", pokedex.DefaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
		return
	}
	params := pokedex.ListParams{Limit: limit}
	if r.URL.Query().Has("offset") {
		if params.Offset, err = queryInt(r, "offset", 0); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
			return
		}
	} else {
		page, err := queryInt(r, "page", 1)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
			return
		}
		params = pokedex.PageParams(page, limit)
	}

	list, err := s.client.ListPokemon(r.Context(), params)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) getPokemon(w http.ResponseWriter, r *http.Request) {
	p, err := s.client.GetPokemon(r.Context(), chi.URLParam(r, "nameOrID"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *server) evolution(w http.ResponseWriter, r *http.Request) {
	evo, err := s.client.Evolution(r.Context(), chi.URLParam(r, "nameOrID"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evo)
}

func (s *server) pokemonMoves(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
		return
	}
	perPage, err := queryInt(r, "per_page", pokedex.DefaultMovesPerPage)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
		return
	}

	p, err := s.client.GetPokemon(r.Context(), chi.URLParam(r, "nameOrID"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, pokedex.BuildMoveTable(p, pokedex.MoveFilter{
		Search:       q.Get("search"),
		LearnMethod:  q.Get("method"),
		VersionGroup: q.Get("version_group"),
		Page:         page,
		PerPage:      perPage,
	}))
}

func (s *server) getSpecies(w http.ResponseWriter, r *http.Request) {
	sp, err := s.client.GetSpecies(r.Context(), chi.URLParam(r, "nameOrID"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
		return
	}
	results, err := s.client.SearchPokemon(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	if results == nil {
		results = []*pokeapi.Pokemon{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   r.URL.Query().Get("q"),
		"count":   len(results),
		"results": results,
	})
}

func (s *server) getMove(w http.ResponseWriter, r *http.Request) {
	m, err := s.client.GetMove(r.Context(), chi.URLParam(r, "nameOrID"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) moveMachine(w http.ResponseWriter, r *http.Request) {
	group := strings.TrimSpace(r.URL.Query().Get("version_group"))
	if group == "" {
		writeError(w, http.StatusBadRequest, "version_group is required", "invalid_request_error")
		return
	}
	m, err := s.client.GetMove(r.Context(), chi.URLParam(r, "nameOrID"))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	machine, err := s.client.MoveMachine(r.Context(), m, group)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, machine)
}

func (s *server) listMachines(w http.ResponseWriter, r *http.Request) {
	list, err := s.client.ListMachines(r.Context())
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) getMachine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "machine id must be a positive integer", "invalid_request_error")
		return
	}
	m, err := s.client.GetMachine(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type compareRequest struct {
	Pokemon string `json:"pokemon"`
	Toggle  bool   `json:"toggle,omitempty"`
}

type compareResponse struct {
	Key        string          `json:"key"`
	Entries    []compare.Entry `json:"entries"`
	CanAddMore bool            `json:"can_add_more"`
	Persisted  bool            `json:"persisted"`
}

func (s *server) compareState(persisted bool) compareResponse {
	entries := s.compare.Entries()
	if entries == nil {
		entries = []compare.Entry{}
	}
	return compareResponse{
		Key:        s.compare.Key(),
		Entries:    entries,
		CanAddMore: s.compare.CanAddMore(),
		Persisted:  persisted,
	}
}

func (s *server) compareEnabled(w http.ResponseWriter) bool {
	if s.compare == nil {
		writeError(w, http.StatusNotImplemented, "comparison list is not enabled", "not_implemented_error")
		return false
	}
	return true
}

func (s *server) getCompare(w http.ResponseWriter, _ *http.Request) {
	if !s.compareEnabled(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.compareState(true))
}

func (s *server) addCompare(w http.ResponseWriter, r *http.Request) {
	if !s.compareEnabled(w) {
		return
	}
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "invalid_request_error")
		return
	}
	p, err := s.client.GetPokemon(r.Context(), req.Pokemon)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	var changed bool
	if req.Toggle {
		changed, err = s.compare.Toggle(r.Context(), p)
	} else {
		changed, err = s.compare.Add(r.Context(), p)
	}
	if !changed {
		msg := fmt.Sprintf("comparison list is full (max %d)", compare.MaxEntries)
		if s.compare.Contains(p.ID) {
			msg = p.Name + " is already in the comparison list"
		}
		writeError(w, http.StatusConflict, msg, "conflict_error")
		return
	}
	writeJSON(w, http.StatusOK, s.compareState(s.persisted(r.Context(), err)))
}

func (s *server) removeCompare(w http.ResponseWriter, r *http.Request) {
	if !s.compareEnabled(w) {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "pokemon id must be an integer", "invalid_request_error")
		return
	}
	removed, err := s.compare.Remove(r.Context(), id)
	if !removed {
		writeError(w, http.StatusNotFound, fmt.Sprintf("pokemon %d is not in the comparison list", id), "not_found_error")
		return
	}
	writeJSON(w, http.StatusOK, s.compareState(s.persisted(r.Context(), err)))
}

func (s *server) clearCompare(w http.ResponseWriter, r *http.Request) {
	if !s.compareEnabled(w) {
		return
	}
	err := s.compare.Clear(r.Context())
	writeJSON(w, http.StatusOK, s.compareState(s.persisted(r.Context(), err)))
}

// persisted logs a failed save. The in-memory change stands either way.
func (s *server) persisted(ctx context.Context, err error) bool {
	if err != nil {
		logging.FromContext(ctx).Warn("persisting comparison list", "key", s.compare.Key(), "error", err.Error())
		return false
	}
	return true
}

// writeLookupError maps a client error onto an HTTP status.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pokedex.ErrEmptyIdentifier), errors.Is(err, pokedex.ErrUnknownIdentifier):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
	case errors.Is(err, pokedex.ErrNoMachine), pokeapi.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), "not_found_error")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error(), "timeout_error")
	default:
		logging.FromContext(r.Context()).Warn("upstream lookup failed",
			"path", r.URL.Path, "upstream_status", pokeapi.StatusCode(err), "error", err.Error())
		writeError(w, http.StatusBadGateway, err.Error(), "upstream_error")
	}
}

// queryInt reads a non-negative integer query parameter, returning def
// when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
