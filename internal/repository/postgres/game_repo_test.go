package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/iamasit07/connect4-minimax/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "mysql", URL: "whatever"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

// openTestRepo connects to TEST_DATABASE_URL, skipping when it is unset.
func openTestRepo(t *testing.T, driver string) *GameRepo {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, Options{Driver: driver, URL: url, MaxOpenConns: 2, MaxIdleConns: 2, ConnMaxLifetimeMin: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	return NewGameRepo(db)
}

func sampleRecord(playerID string, finished time.Time) domain.GameRecord {
	return domain.GameRecord{
		GameID:          uid.GenerateGameID(),
		PlayerID:        playerID,
		Client:          "script",
		Winner:          domain.WinnerHuman,
		Reason:          "connect_four",
		Rows:            4,
		Columns:         4,
		TotalMoves:      5,
		Moves:           []int{0, 3, 1, 3, 2},
		Board:           [][]int{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 2}, {1, 1, 1, 2}},
		DurationSeconds: 12,
		CreatedAt:       finished.Add(-12 * time.Second),
		FinishedAt:      finished,
	}
}

func TestGameRepo(t *testing.T) {
	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			repo := openTestRepo(t, driver)
			ctx := context.Background()
			player := uid.GeneratePlayerID()
			now := time.Now().UTC().Truncate(time.Second)

			older := sampleRecord(player, now.Add(-time.Hour))
			newer := sampleRecord(player, now)
			require.NoError(t, repo.SaveGame(ctx, older))
			require.NoError(t, repo.SaveGame(ctx, newer))

			got, err := repo.GetGameByID(ctx, newer.GameID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, newer.Moves, got.Moves)
			assert.Equal(t, newer.Board, got.Board)
			assert.Equal(t, player, got.PlayerID)

			missing, err := repo.GetGameByID(ctx, uid.GenerateGameID())
			require.NoError(t, err)
			assert.Nil(t, missing)

			history, err := repo.GetPlayerHistory(ctx, player, 10)
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, newer.GameID, history[0].GameID)

			// upsert keeps a single row
			newer.Winner = domain.WinnerBot
			require.NoError(t, repo.SaveGame(ctx, newer))
			history, err = repo.GetPlayerHistory(ctx, player, 10)
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, domain.WinnerBot, history[0].Winner)

			ancient := sampleRecord(player, now.AddDate(0, 0, -400))
			require.NoError(t, repo.SaveGame(ctx, ancient))
			n, err := repo.DeleteOlderThan(ctx, 365)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, int64(1))

			gone, err := repo.GetGameByID(ctx, ancient.GameID)
			require.NoError(t, err)
			assert.Nil(t, gone)
		})
	}
}
