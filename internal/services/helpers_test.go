package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"party-game-backend/internal/database"
	"party-game-backend/internal/storage"
)

type testEnv struct {
	store      *storage.DiskStore
	sessions   *SessionService
	rooms      *RoomService
	membership *MembershipService
	challenges *ChallengeService
	media      *MediaService
	final      *FinalService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewDiskStore(t.TempDir())
	sessions := NewSessionService(testDb, 0)
	rooms := NewRoomService(testDb)
	return &testEnv{
		store:      store,
		sessions:   sessions,
		rooms:      rooms,
		membership: NewMembershipService(testDb, rooms, sessions, store),
		challenges: NewChallengeService(testDb, rooms, store),
		media:      NewMediaService(testDb, store),
		final:      NewFinalService(testDb, rooms),
	}
}

func seedCatalog(t *testing.T) {
	t.Helper()
	_, err := database.SeedChallenges(testDb)
	require.NoError(t, err)
}
