package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party-game-backend/internal/models"
	"party-game-backend/internal/timeblock"
)

func uploadHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func firstAssignment(t *testing.T, env *testEnv, playerID uint) uint {
	t.Helper()
	assigned, err := env.challenges.AssignForBlock(playerID, timeblock.BlockStart(time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, assigned)
	return assigned[0].ID
}

func TestAttachStoresFileAndPointer(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	pcID := firstAssignment(t, env, owner.Player.ID)

	file := uploadHeader(t, "proof.jpeg", "image/jpeg", []byte("jpegdata"))
	info, err := env.media.Attach(owner.Player.ID, pcID, file)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.Mime)
	assert.Equal(t, models.MediaTypeImage, info.Type)
	assert.Contains(t, info.URL, "/uploads/")

	var pc models.PlayerChallenge
	require.NoError(t, testDb.First(&pc, pcID).Error)
	require.NotEmpty(t, pc.MediaPath)
	require.NotNil(t, pc.MediaUploadedAt)

	data, err := os.ReadFile(filepath.Join(env.store.Root(), pc.MediaPath))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegdata"), data)
}

func TestAttachReplacesPreviousUpload(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	pcID := firstAssignment(t, env, owner.Player.ID)

	_, err = env.media.Attach(owner.Player.ID, pcID, uploadHeader(t, "a.jpeg", "image/jpeg", []byte("old")))
	require.NoError(t, err)
	var before models.PlayerChallenge
	require.NoError(t, testDb.First(&before, pcID).Error)

	info, err := env.media.Attach(owner.Player.ID, pcID, uploadHeader(t, "b.mp4", "video/mp4", []byte("new")))
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeVideo, info.Type)

	var after models.PlayerChallenge
	require.NoError(t, testDb.First(&after, pcID).Error)
	assert.NotEqual(t, before.MediaPath, after.MediaPath)
	_, err = os.Stat(filepath.Join(env.store.Root(), before.MediaPath))
	assert.True(t, os.IsNotExist(err))
}

func TestAttachValidation(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	bob, err := env.membership.Join(owner.Room.Code, "bob")
	require.NoError(t, err)
	pcID := firstAssignment(t, env, owner.Player.ID)

	_, err = env.media.Attach(owner.Player.ID, pcID, nil)
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = env.media.Attach(owner.Player.ID, pcID, uploadHeader(t, "a.pdf", "application/pdf", []byte("x")))
	assert.ErrorIs(t, err, ErrInvalidFileType)

	// Not the uploader's assignment.
	_, err = env.media.Attach(bob.Player.ID, pcID, uploadHeader(t, "a.jpeg", "image/jpeg", []byte("x")))
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestFetchOwnMediaOnly(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	bob, err := env.membership.Join(owner.Room.Code, "bob")
	require.NoError(t, err)
	pcID := firstAssignment(t, env, owner.Player.ID)

	_, err = env.media.Fetch(owner.Player.ID, pcID)
	assert.ErrorIs(t, err, ErrNoMedia)

	_, err = env.media.Attach(owner.Player.ID, pcID, uploadHeader(t, "a.jpeg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	info, err := env.media.Fetch(owner.Player.ID, pcID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.Mime)

	_, err = env.media.Fetch(bob.Player.ID, pcID)
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestDeleteMediaRevokesCompletion(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	pcID := firstAssignment(t, env, owner.Player.ID)

	_, err = env.media.Attach(owner.Player.ID, pcID, uploadHeader(t, "a.jpeg", "image/jpeg", []byte("x")))
	require.NoError(t, err)
	completed, err := env.challenges.Complete(owner.Player.ID, pcID, true)
	require.NoError(t, err)
	require.Equal(t, 1, completed.Points)

	result, err := env.media.Delete(owner.Player.ID, pcID)
	require.NoError(t, err)
	assert.True(t, result.CompletionRevoked)
	assert.Equal(t, 0, result.Points)

	var pc models.PlayerChallenge
	require.NoError(t, testDb.First(&pc, pcID).Error)
	assert.False(t, pc.Completed)
	assert.Empty(t, pc.MediaPath)

	_, err = env.media.Delete(owner.Player.ID, pcID)
	assert.ErrorIs(t, err, ErrNoMedia)
}

func TestDeleteMediaWithoutCompletionKeepsPoints(t *testing.T) {
	defer clearDatabase()
	env := newTestEnv(t)
	seedCatalog(t)

	owner, err := env.membership.CreateRoom("alice", 2, "")
	require.NoError(t, err)
	pcID := firstAssignment(t, env, owner.Player.ID)

	_, err = env.media.Attach(owner.Player.ID, pcID, uploadHeader(t, "a.jpeg", "image/jpeg", []byte("x")))
	require.NoError(t, err)

	result, err := env.media.Delete(owner.Player.ID, pcID)
	require.NoError(t, err)
	assert.False(t, result.CompletionRevoked)
	assert.Equal(t, 0, result.Points)
}
