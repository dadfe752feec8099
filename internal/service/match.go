package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type MatchService interface {
	CreateMatch(ctx context.Context, size int) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	MakeTurn(ctx context.Context, id string, piece tictactoe.Piece, column, row int) (*entity.Match, error)
	DeleteMatch(ctx context.Context, id string) error
}

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fn func(match *entity.Match) error) (*entity.Match, error)
}

// Settings are the game rules new matches are created with.
type Settings struct {
	// DefaultBoardSize is used when a match is requested with size 0.
	DefaultBoardSize int
	MaxBoardSize     int
	FreeTurnOrder    bool
}

type matchService struct {
	logger    *slog.Logger
	matchRepo matchRepo
	settings  Settings

	now   func() time.Time
	newID func() string
}

func NewMatchService(logger *slog.Logger, matchRepo matchRepo, settings Settings) MatchService {
	return &matchService{
		logger:    logger.With("component", "match_service"),
		matchRepo: matchRepo,
		settings:  settings,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (that *matchService) CreateMatch(ctx context.Context, size int) (*entity.Match, error) {
	if size == 0 {
		size = that.settings.DefaultBoardSize
	}

	if that.settings.MaxBoardSize > 0 && size > that.settings.MaxBoardSize {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", apperror.ErrInvalidBoardSize, size, that.settings.MaxBoardSize)
	}

	var opts []tictactoe.Option
	if that.settings.FreeTurnOrder {
		opts = append(opts, tictactoe.WithoutTurnOrder())
	}

	game, err := tictactoe.NewGame(size, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	match := entity.NewMatch(that.newID(), game, that.now().UTC())
	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create match in storage: %w", err)
	}

	that.logger.Info("match created", "matchID", match.ID, "size", size)

	return match, nil
}

func (that *matchService) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	match, err := that.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve match from storage: %w", err)
	}

	return match, nil
}

func (that *matchService) MakeTurn(ctx context.Context, id string, piece tictactoe.Piece, column, row int) (*entity.Match, error) {
	log := that.logger.With("method", "MakeTurn", "matchID", id, "player", piece.Owner(), "column", column, "row", row)

	match, err := that.matchRepo.Update(ctx, id, func(match *entity.Match) error {
		return match.MakeTurn(piece, column, row, that.now().UTC())
	})
	if errors.Is(err, apperror.ErrIllegalMove) || errors.Is(err, repository.ErrMatchNotFound) {
		log.Debug("turn rejected", "error", err)
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if err != nil {
		log.Error("failed to make turn", "error", err)
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if match.IsFinished() {
		log.Info("match finished", "result", match.Result(), "moves", match.Game.MoveCount())
	}

	return match, nil
}

func (that *matchService) DeleteMatch(ctx context.Context, id string) error {
	if err := that.matchRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	that.logger.Info("match deleted", "matchID", id)

	return nil
}
