package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-game-backend/internal/models"
	"party-game-backend/internal/timeblock"
)

func TestAssignForBlockIsStableWithinBlock(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	block := timeblock.BlockStart(time.Now())

	first, err := env.challenges.AssignForBlock(owner.Player.ID, block)
	require.NoError(t, err)
	require.Len(t, first, ChallengesPerBlock)

	second, err := env.challenges.AssignForBlock(owner.Player.ID, block)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	titles := map[string]bool{}
	for _, c := range first {
		assert.NotEmpty(t, c.Title)
		titles[c.Title] = true
	}
	assert.Len(t, titles, ChallengesPerBlock)
}

func TestAssignForBlockAvoidsRecentTemplates(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	block := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	next := block.Add(models.RoundDuration)

	current, err := env.challenges.AssignForBlock(owner.Player.ID, block)
	require.NoError(t, err)
	following, err := env.challenges.AssignForBlock(owner.Player.ID, next)
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range current {
		seen[c.Title] = true
	}
	for _, c := range following {
		assert.False(t, seen[c.Title], "template %q repeated in adjacent block", c.Title)
	}
}

func TestAssignForBlockFallsBackOnSmallCatalog(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)

	// Catalog exactly the size of one block's assignment: the recency window
	// would exclude everything, so it must be ignored.
	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, testDb.Create(&models.Challenge{Title: title, Description: title}).Error)
	}

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	block := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	first, err := env.challenges.AssignForBlock(owner.Player.ID, block)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := env.challenges.AssignForBlock(owner.Player.ID, block.Add(models.RoundDuration))
	require.NoError(t, err)
	require.Len(t, second, 3)
}

func TestCurrentBlockServesChallengesWhileLive(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	now := time.Now()
	view, err := env.challenges.CurrentBlock(owner.Player, now)
	require.NoError(t, err)
	assert.False(t, view.Paused)
	assert.False(t, view.Ended)
	assert.Equal(t, timeblock.BlockStart(now), view.BlockStart)
	assert.Greater(t, view.NextBlockInSec, 0)
	assert.LessOrEqual(t, view.NextBlockInSec, 1800)
	assert.Len(t, view.Challenges, ChallengesPerBlock)
}

func TestCurrentBlockWithholdsChallengesWhenPaused(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	_, _, err = env.rooms.TogglePause(owner.Room.Code)
	require.NoError(t, err)

	view, err := env.challenges.CurrentBlock(owner.Player, time.Now())
	require.NoError(t, err)
	assert.True(t, view.Paused)
	assert.Empty(t, view.Challenges)
	assert.Greater(t, view.NextBlockInSec, 0)

	// No assignment rows are created while paused.
	var count int64
	testDb.Model(&models.PlayerChallenge{}).Where("player_id = ?", owner.Player.ID).Count(&count)
	assert.Zero(t, count)

	// Unpausing serves the block again.
	_, _, err = env.rooms.TogglePause(owner.Room.Code)
	require.NoError(t, err)
	view, err = env.challenges.CurrentBlock(owner.Player, time.Now())
	require.NoError(t, err)
	assert.False(t, view.Paused)
	assert.Len(t, view.Challenges, ChallengesPerBlock)
}

func TestCurrentBlockReportsEndedRoom(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	require.NoError(t, env.rooms.End(owner.Player, owner.Room.Code))

	view, err := env.challenges.CurrentBlock(owner.Player, time.Now())
	require.NoError(t, err)
	assert.True(t, view.Ended)
	assert.False(t, view.Paused)
	assert.Empty(t, view.Challenges)

	var count int64
	testDb.Model(&models.PlayerChallenge{}).Where("player_id = ?", owner.Player.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCurrentBlockWithoutRoom(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)

	detached := &models.Player{ID: 1, Nickname: "ghost"}
	_, err := env.challenges.CurrentBlock(detached, time.Now())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCompleteAwardsPointOnce(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, timeblock.BlockStart(time.Now()))
	require.NoError(t, err)

	first, err := env.challenges.Complete(owner.Player.ID, assigned[0].ID, false)
	require.NoError(t, err)
	assert.True(t, first.CompletedNow)
	assert.Equal(t, 1, first.Points)

	again, err := env.challenges.Complete(owner.Player.ID, assigned[0].ID, false)
	require.NoError(t, err)
	assert.False(t, again.CompletedNow)
	assert.Equal(t, 1, again.Points)

	var player models.Player
	require.NoError(t, testDb.First(&player, owner.Player.ID).Error)
	assert.Equal(t, 1, player.Points)
}

func TestCompleteRequiresMediaWhenPolicyOn(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, timeblock.BlockStart(time.Now()))
	require.NoError(t, err)

	_, err = env.challenges.Complete(owner.Player.ID, assigned[0].ID, true)
	assert.ErrorIs(t, err, ErrMediaRequired)
}

func TestCompleteRejectsForeignAssignment(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	bob, err := env.membership.Join(owner.Room.Code, "bob")
	require.NoError(t, err)

	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, timeblock.BlockStart(time.Now()))
	require.NoError(t, err)

	_, err = env.challenges.Complete(bob.Player.ID, assigned[0].ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.challenges.Complete(owner.Player.ID, 99999, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectTakesPointBackOnce(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, timeblock.BlockStart(time.Now()))
	require.NoError(t, err)

	_, err = env.challenges.Complete(owner.Player.ID, assigned[0].ID, false)
	require.NoError(t, err)

	first, err := env.challenges.Reject(assigned[0].ID)
	require.NoError(t, err)
	assert.True(t, first.RejectedNow)
	assert.Equal(t, 0, first.Points)
	assert.Equal(t, owner.Player.ID, first.PlayerID)

	again, err := env.challenges.Reject(assigned[0].ID)
	require.NoError(t, err)
	assert.False(t, again.RejectedNow)
	assert.Equal(t, 0, again.Points)

	var pc models.PlayerChallenge
	require.NoError(t, testDb.First(&pc, assigned[0].ID).Error)
	assert.False(t, pc.Completed)
	assert.Nil(t, pc.CompletedAt)
	assert.Empty(t, pc.MediaPath)
}

func TestRejectIncompleteIsNoOp(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)

	assigned, err := env.challenges.AssignForBlock(owner.Player.ID, timeblock.BlockStart(time.Now()))
	require.NoError(t, err)

	result, err := env.challenges.Reject(assigned[0].ID)
	require.NoError(t, err)
	assert.False(t, result.RejectedNow)
	assert.Equal(t, 0, result.Points)

	_, err = env.challenges.Reject(99999)
	assert.ErrorIs(t, err, ErrNotFound)
}
