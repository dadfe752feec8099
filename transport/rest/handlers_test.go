package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	_, st := suite.New(t)

	matchRepo := repository.NewMatchRepository(st.Storage, 0, 3)
	matchService := service.NewMatchService(st.Logger, matchRepo, service.Settings{DefaultBoardSize: 3, MaxBoardSize: 8})

	server := httptest.NewServer(NewHandlers(st.Logger, matchService).Routes())
	t.Cleanup(server.Close)

	return server
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func createMatch(t *testing.T, server *httptest.Server, body string) matchView {
	t.Helper()

	resp := doRequest(t, http.MethodPost, server.URL+"/matches", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decode[matchView](t, resp)
}

func TestPing(t *testing.T) {
	server := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/ping", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandlers_CreateMatch(t *testing.T) {
	t.Run("Default size with empty body", func(t *testing.T) {
		server := newTestServer(t)

		// When: a match is created without a body
		view := createMatch(t, server, "")

		// Then: a 3×3 empty board with X to move is returned
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, 3, view.Size)
		assert.Equal(t, [][]string{{"", "", ""}, {"", "", ""}, {"", "", ""}}, view.Board)
		assert.Equal(t, "X", view.NextPlayer)
		assert.Equal(t, "ongoing", view.Status)
		assert.False(t, view.Over)
	})

	t.Run("Explicit size", func(t *testing.T) {
		server := newTestServer(t)

		view := createMatch(t, server, `{"size":4}`)

		assert.Equal(t, 4, view.Size)
		assert.Len(t, view.Board, 4)
	})

	t.Run("Bad requests", func(t *testing.T) {
		server := newTestServer(t)

		for _, body := range []string{
			`{"size":-1}`,
			`{"size":9}`,
			`{"size":"big"}`,
			`{"colour":"red"}`,
			`{"size":3}garbage`,
			`{"size":3}{"size":4}`,
		} {
			resp := doRequest(t, http.MethodPost, server.URL+"/matches", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		}
	})
}

func TestHandlers_GetMatch(t *testing.T) {
	server := newTestServer(t)
	created := createMatch(t, server, "")

	t.Run("Existing match", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/matches/"+created.ID, "")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, created.ID, decode[matchView](t, resp).ID)
	})

	t.Run("Unknown match", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, server.URL+"/matches/missing", "")

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, repository.ErrMatchNotFound.Error(), decode[errorResponse](t, resp).Error)
	})
}

func TestHandlers_MakeMove(t *testing.T) {
	t.Run("Plays until X wins", func(t *testing.T) {
		server := newTestServer(t)
		created := createMatch(t, server, "")
		movesURL := server.URL + "/matches/" + created.ID + "/moves"

		moves := []string{
			`{"player":"X","weight":10,"column":0,"row":0}`,
			`{"player":"O","weight":10,"column":0,"row":1}`,
			`{"player":"X","weight":10,"column":1,"row":0}`,
			`{"player":"O","weight":10,"column":1,"row":1}`,
			`{"player":"X","weight":10,"column":2,"row":0}`,
		}

		var view matchView
		for _, body := range moves {
			resp := doRequest(t, http.MethodPost, movesURL, body)
			require.Equal(t, http.StatusOK, resp.StatusCode, body)
			view = decode[matchView](t, resp)
		}

		assert.Equal(t, [][]string{{"X", "X", "X"}, {"O", "O", ""}, {"", "", ""}}, view.Board)
		assert.Equal(t, "X", view.Winner)
		assert.True(t, view.Over)
		assert.Equal(t, "finished", view.Status)
		assert.Equal(t, 5, view.MoveCount)

		// And: further moves are rejected as game over
		resp := doRequest(t, http.MethodPost, movesURL, `{"player":"O","column":2,"row":1}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "game_over", decode[errorResponse](t, resp).Reason)
	})

	t.Run("Illegal moves report a reason", func(t *testing.T) {
		server := newTestServer(t)
		created := createMatch(t, server, "")
		movesURL := server.URL + "/matches/" + created.ID + "/moves"

		resp := doRequest(t, http.MethodPost, movesURL, `{"player":"X","column":1,"row":1}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		cases := map[string]string{
			`{"player":"X","column":0,"row":0}`: "not_your_turn",
			`{"player":"O","column":1,"row":1}`: "cell_occupied",
			`{"player":"O","column":3,"row":0}`: "out_of_bounds",
		}

		for body, reason := range cases {
			resp = doRequest(t, http.MethodPost, movesURL, body)
			require.Equal(t, http.StatusConflict, resp.StatusCode, body)
			assert.Equal(t, reason, decode[errorResponse](t, resp).Reason, body)
		}
	})

	t.Run("Bad requests", func(t *testing.T) {
		server := newTestServer(t)
		created := createMatch(t, server, "")
		movesURL := server.URL + "/matches/" + created.ID + "/moves"

		for _, body := range []string{
			`{"player":"Z","column":0,"row":0}`,
			`{"player":"X","column":0}`,
			`{"player":"X"`,
			`{"player":"X","column":0,"row":0} trailing`,
			``,
		} {
			resp := doRequest(t, http.MethodPost, movesURL, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		}
	})

	t.Run("Unknown match", func(t *testing.T) {
		server := newTestServer(t)

		resp := doRequest(t, http.MethodPost, server.URL+"/matches/missing/moves", `{"player":"X","column":0,"row":0}`)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHandlers_MatchWithoutGame(t *testing.T) {
	ctx, st := suite.New(t)

	matchRepo := repository.NewMatchRepository(st.Storage, 0, 3)
	matchService := service.NewMatchService(st.Logger, matchRepo, service.Settings{DefaultBoardSize: 3})
	server := httptest.NewServer(NewHandlers(st.Logger, matchService).Routes())
	t.Cleanup(server.Close)

	// Given: a stored match whose game is null
	require.NoError(t, st.Storage.Set(ctx, "match:broken", `{"id":"broken","game":null}`, 0).Err())

	// When: reading it
	resp := doRequest(t, http.MethodGet, server.URL+"/matches/broken", "")

	// Then: the server answers with an error instead of crashing
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandlers_DeleteMatch(t *testing.T) {
	server := newTestServer(t)
	created := createMatch(t, server, "")

	resp := doRequest(t, http.MethodDelete, server.URL+"/matches/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, server.URL+"/matches/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
