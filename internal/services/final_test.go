package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-game-backend/internal/models"
	"party-game-backend/internal/timeblock"
)

func TestFinalSummaryGatedOnGameEnd(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)

	owner, err := env.membership.CreateRoom("alice", 2, "Garden Party")
	require.NoError(t, err)

	_, err = env.final.Summary(owner.Player)
	assert.ErrorIs(t, err, ErrGameNotEnded)

	require.NoError(t, env.rooms.End(owner.Player, owner.Room.Code))

	summary, err := env.final.Summary(owner.Player)
	require.NoError(t, err)
	assert.Equal(t, "Garden Party", summary.RoomName)
	require.Len(t, summary.Leaders, 1)
	assert.Equal(t, "alice", summary.Leaders[0].Nickname)
}

func TestFinalSummaryWithoutRoom(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)

	detached := &models.Player{ID: 1, Nickname: "ghost"}
	_, err := env.final.Summary(detached)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestFinalChallengeMediaCollectsRoomUploads(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	bob, err := env.membership.Join(owner.Room.Code, "bob")
	require.NoError(t, err)

	block := timeblock.BlockStart(time.Now())
	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, block)
	require.NoError(t, err)

	_, err = env.media.Attach(owner.Player.ID, assigned[0].ID,
		uploadHeader(t, "a.jpeg", "image/jpeg", []byte("x")))
	require.NoError(t, err)
	_, err = env.challenges.Complete(owner.Player.ID, assigned[0].ID, true)
	require.NoError(t, err)

	var pc models.PlayerChallenge
	require.NoError(t, testDb.First(&pc, assigned[0].ID).Error)

	require.NoError(t, env.rooms.End(owner.Player, owner.Room.Code))

	view, err := env.final.ChallengeMedia(bob.Player, pc.ChallengeID)
	require.NoError(t, err)
	assert.Equal(t, pc.ChallengeID, view.Challenge.ID)
	require.Len(t, view.Media, 1)
	assert.Equal(t, pc.ID, view.Media[0].ID)
	require.NotNil(t, view.Media[0].Player)
	assert.Equal(t, "alice", view.Media[0].Player.Nickname)
	require.NotNil(t, view.Media[0].Media)
	assert.Contains(t, view.Media[0].Media.URL, "/uploads/")

	_, err = env.final.ChallengeMedia(bob.Player, 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalChallengeMediaOrdersCompletionsFirst(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	bob, err := env.membership.Join(owner.Room.Code, "bob")
	require.NoError(t, err)

	block := timeblock.BlockStart(time.Now())
	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, block)
	require.NoError(t, err)

	_, err = env.media.Attach(owner.Player.ID, assigned[0].ID,
		uploadHeader(t, "a.jpeg", "image/jpeg", []byte("x")))
	require.NoError(t, err)
	_, err = env.challenges.Complete(owner.Player.ID, assigned[0].ID, true)
	require.NoError(t, err)

	var completed models.PlayerChallenge
	require.NoError(t, testDb.First(&completed, assigned[0].ID).Error)

	// Bob uploaded for the same template but never completed it.
	pending := models.PlayerChallenge{
		PlayerID:    bob.Player.ID,
		ChallengeID: completed.ChallengeID,
		BlockStart:  block,
		MediaPath:   "pending.jpeg",
		MediaMime:   "image/jpeg",
		MediaType:   models.MediaTypeImage,
	}
	require.NoError(t, testDb.Create(&pending).Error)

	require.NoError(t, env.rooms.End(owner.Player, owner.Room.Code))

	view, err := env.final.ChallengeMedia(bob.Player, completed.ChallengeID)
	require.NoError(t, err)
	require.Len(t, view.Media, 2)
	assert.Equal(t, completed.ID, view.Media[0].ID)
	require.NotNil(t, view.Media[0].CompletedAt)
	assert.Equal(t, pending.ID, view.Media[1].ID)
	assert.Nil(t, view.Media[1].CompletedAt)
}
