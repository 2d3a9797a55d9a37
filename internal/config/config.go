package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"skullking-game/internal/shared"
)

// Config holds the server settings. The deck parameters are the only game
// configuration the rules know about.
type Config struct {
	HTTPAddr     string
	LogLevel     logrus.Level
	CardsPerSuit int
	SkullCount   int
	MinSeats     int
	MaxSeats     int
	Rounds       int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first.
func Load() (Config, error) {
	c := Config{
		HTTPAddr: envOr("HTTP_ADDR", ":8080"),
	}

	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"CARDS_PER_SUIT", 13, &c.CardsPerSuit},
		{"SKULL_COUNT", 13, &c.SkullCount},
		{"MIN_SEATS", 2, &c.MinSeats},
		{"MAX_SEATS", 6, &c.MaxSeats},
		{"ROUNDS", 10, &c.Rounds},
	}
	for _, v := range ints {
		n, err := intOr(v.key, v.fallback)
		if err != nil {
			return Config{}, err
		}
		*v.dst = n
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that the deck is well formed and large enough to deal the
// last round to a full table.
func (c Config) Validate() error {
	deck := c.DeckConfig()
	if err := deck.Validate(); err != nil {
		return err
	}
	if c.MinSeats < 1 || c.MaxSeats < c.MinSeats {
		return fmt.Errorf("invalid seat range %d..%d", c.MinSeats, c.MaxSeats)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("ROUNDS must be at least 1, got %d", c.Rounds)
	}
	if need := c.Rounds * c.MaxSeats; need > deck.Size() {
		return fmt.Errorf("deck of %d cards cannot deal %d rounds to %d seats", deck.Size(), c.Rounds, c.MaxSeats)
	}
	return nil
}

// DeckConfig returns the deck parameters with the three standard suits.
func (c Config) DeckConfig() shared.DeckConfig {
	return shared.DeckConfig{
		Suits:        slices.Clone(shared.StandardSuits),
		CardsPerSuit: c.CardsPerSuit,
		SkullCount:   c.SkullCount,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
