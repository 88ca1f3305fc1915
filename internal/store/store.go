package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/ytget/audiofixture/internal/platform"
	"github.com/ytget/audiofixture/internal/store/migrations"
)

// ErrNotConfigured is returned when a Store method is called on a closed or zero store
var ErrNotConfigured = errors.New("store is not configured")

// Seed is the customization state written for one playlist
type Seed struct {
	TagID     string
	Order     []string // song UUIDs in play order
	Favorites []string
	Excluded  []string
}

// Store seeds the player's playlist database
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and applies migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(cleanPath)); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite", cleanPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// seedTables are cleared per tag before a seed is written.
var seedTables = []string{"CustomPlaylistOrder", "CustomFavorites", "CustomExcludedSongs"}

// SeedPlaylist replaces the rows of seed.TagID in a single transaction. Rows of
// other tags are untouched.
func (s *Store) SeedPlaylist(ctx context.Context, seed Seed) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	if strings.TrimSpace(seed.TagID) == "" {
		return errors.New("tag id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed %s: %w", seed.TagID, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range seedTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE tag_id = ?`, seed.TagID); err != nil {
			return fmt.Errorf("clear %s %s: %w", table, seed.TagID, err)
		}
	}
	for i, songUUID := range seed.Order {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO CustomPlaylistOrder (tag_id, song_uuid, order_index, updated_at)
			 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
			seed.TagID, songUUID, i,
		); err != nil {
			return fmt.Errorf("seed order %s: %w", seed.TagID, err)
		}
	}
	for _, songUUID := range seed.Favorites {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO CustomFavorites (tag_id, song_uuid) VALUES (?, ?)`,
			seed.TagID, songUUID,
		); err != nil {
			return fmt.Errorf("seed favorites %s: %w", seed.TagID, err)
		}
	}
	for _, songUUID := range seed.Excluded {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO CustomExcludedSongs (tag_id, song_uuid) VALUES (?, ?)`,
			seed.TagID, songUUID,
		); err != nil {
			return fmt.Errorf("seed exclusions %s: %w", seed.TagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed %s: %w", seed.TagID, err)
	}
	return nil
}

// Favorites returns the favorite song UUIDs of tagID
func (s *Store) Favorites(ctx context.Context, tagID string) ([]string, error) {
	return s.queryUUIDs(ctx, `SELECT song_uuid FROM CustomFavorites WHERE tag_id = ? ORDER BY id`, tagID)
}

// Excluded returns the excluded song UUIDs of tagID
func (s *Store) Excluded(ctx context.Context, tagID string) ([]string, error) {
	return s.queryUUIDs(ctx, `SELECT song_uuid FROM CustomExcludedSongs WHERE tag_id = ? ORDER BY id`, tagID)
}

// Order returns the song UUIDs of tagID in play order
func (s *Store) Order(ctx context.Context, tagID string) ([]string, error) {
	return s.queryUUIDs(ctx, `SELECT song_uuid FROM CustomPlaylistOrder WHERE tag_id = ? ORDER BY order_index ASC`, tagID)
}

func (s *Store) queryUUIDs(ctx context.Context, query, tagID string) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	rows, err := s.db.QueryContext(ctx, query, tagID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tagID, err)
	}
	defer rows.Close()

	var uuids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", tagID, err)
		}
		uuids = append(uuids, id)
	}
	return uuids, rows.Err()
}

// PlanSeed draws a shuffled order and disjoint favorite and excluded sets from songs.
// Set sizes are the ratios of len(songs), rounded to the nearest integer.
func PlanSeed(tagID string, songs []string, rng *rand.Rand, favoriteRatio, excludeRatio float64) Seed {
	seed := Seed{TagID: tagID}
	if len(songs) == 0 {
		return seed
	}

	seed.Order = make([]string, len(songs))
	for i, j := range rng.Perm(len(songs)) {
		seed.Order[i] = songs[j]
	}

	picks := rng.Perm(len(songs))
	favorites := ratioCount(len(songs), favoriteRatio)
	excluded := min(ratioCount(len(songs), excludeRatio), len(songs)-favorites)

	for _, j := range picks[:favorites] {
		seed.Favorites = append(seed.Favorites, songs[j])
	}
	for _, j := range picks[favorites : favorites+excluded] {
		seed.Excluded = append(seed.Excluded, songs[j])
	}
	return seed
}

func ratioCount(n int, ratio float64) int {
	count := int(math.Round(float64(n) * ratio))
	return max(0, min(count, n))
}
