package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const maxBodyBytes = 1 << 16

var (
	errMissingCoordinates = errors.New("column and row are required")
	errTrailingData       = errors.New("invalid request body: unexpected data after JSON value")
)

type matchService interface {
	CreateMatch(ctx context.Context, size int) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	MakeTurn(ctx context.Context, id string, piece tictactoe.Piece, column, row int) (*entity.Match, error)
	DeleteMatch(ctx context.Context, id string) error
}

type Handlers struct {
	logger       *slog.Logger
	matchService matchService
}

func NewHandlers(logger *slog.Logger, matchService matchService) *Handlers {
	return &Handlers{
		logger:       logger.With("component", "rest"),
		matchService: matchService,
	}
}

// Routes registers every endpoint on a new mux.
func (that *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("POST /matches", that.createMatch)
	mux.HandleFunc("GET /matches/{id}", that.getMatch)
	mux.HandleFunc("DELETE /matches/{id}", that.deleteMatch)
	mux.HandleFunc("POST /matches/{id}/moves", that.makeMove)

	return mux
}

type createMatchRequest struct {
	Size int `json:"size"`
}

type moveRequest struct {
	Player string `json:"player"`
	Weight int    `json:"weight"`
	Column *int   `json:"column"`
	Row    *int   `json:"row"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type matchView struct {
	ID         string     `json:"id"`
	Size       int        `json:"size"`
	Board      [][]string `json:"board"`
	NextPlayer string     `json:"next_player"`
	Winner     string     `json:"winner"`
	Over       bool       `json:"over"`
	Status     string     `json:"status"`
	MoveCount  int        `json:"move_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func newMatchView(match *entity.Match) matchView {
	snapshot := match.Game.Snapshot()

	board := make([][]string, snapshot.Size)
	for row := range board {
		board[row] = make([]string, snapshot.Size)
	}

	for _, cell := range snapshot.Cells {
		board[cell.Row][cell.Column] = cell.Player.String()
	}

	return matchView{
		ID:         match.ID,
		Size:       snapshot.Size,
		Board:      board,
		NextPlayer: snapshot.Turn.String(),
		Winner:     snapshot.Winner.String(),
		Over:       snapshot.Over,
		Status:     match.Status(),
		MoveCount:  snapshot.MoveCount,
		CreatedAt:  match.CreatedAt,
		UpdatedAt:  match.UpdatedAt,
	}
}

func (that *Handlers) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, http.StatusBadRequest, err, "")
		return
	}

	match, err := that.matchService.CreateMatch(r.Context(), req.Size)
	if err != nil {
		that.handleServiceError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newMatchView(match))
}

func (that *Handlers) getMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matchService.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		that.handleServiceError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchView(match))
}

func (that *Handlers) deleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := that.matchService.DeleteMatch(r.Context(), r.PathValue("id")); err != nil {
		that.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil {
		that.writeError(w, http.StatusBadRequest, err, "")
		return
	}

	if req.Column == nil || req.Row == nil {
		that.writeError(w, http.StatusBadRequest, errMissingCoordinates, "")
		return
	}

	player, err := tictactoe.ParsePlayer(req.Player)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, err, "")
		return
	}

	piece := tictactoe.NewPiece(player, req.Weight)

	match, err := that.matchService.MakeTurn(r.Context(), r.PathValue("id"), piece, *req.Column, *req.Row)
	if err != nil {
		that.handleServiceError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchView(match))
}

// moveReasons maps engine rejection reasons to stable API codes.
var moveReasons = []struct {
	err  error
	code string
}{
	{apperror.ErrGameFinished, "game_over"},
	{apperror.ErrOutOfBounds, "out_of_bounds"},
	{apperror.ErrCellOccupied, "cell_occupied"},
	{apperror.ErrNotYourTurn, "not_your_turn"},
	{apperror.ErrInvalidPlayer, "invalid_player"},
}

func (that *Handlers) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMatchNotFound):
		that.writeError(w, http.StatusNotFound, repository.ErrMatchNotFound, "")
	case errors.Is(err, apperror.ErrInvalidBoardSize):
		that.writeError(w, http.StatusBadRequest, err, "")
	case errors.Is(err, apperror.ErrIllegalMove):
		that.writeError(w, http.StatusConflict, apperror.ErrIllegalMove, moveReason(err))
	case errors.Is(err, apperror.ErrConcurrentUpdate):
		that.writeError(w, http.StatusConflict, apperror.ErrConcurrentUpdate, "concurrent_update")
	default:
		that.logger.Error("request failed", "error", err)
		that.writeError(w, http.StatusInternalServerError, errors.New("internal server error"), "")
	}
}

func moveReason(err error) string {
	for _, reason := range moveReasons {
		if errors.Is(err, reason.err) {
			return reason.code
		}
	}

	return ""
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	// An empty body leaves dst at its zero value.
	err := decoder.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err = decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	return nil
}

func (that *Handlers) writeError(w http.ResponseWriter, status int, err error, reason string) {
	that.writeJSON(w, status, errorResponse{Error: err.Error(), Reason: reason})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
