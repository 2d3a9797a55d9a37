package game

import "errors"

var (
	ErrGameStarted      = errors.New("game already started")
	ErrNotPlaying       = errors.New("game is not in play")
	ErrGameOver         = errors.New("game is over")
	ErrTableFull        = errors.New("table is full")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrEmptyName        = errors.New("name cannot be empty")
)
