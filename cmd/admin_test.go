package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/majoradvisor-backend/internal/data/db"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
)

func TestOptionalUUID(t *testing.T) {
	id, err := optionalUUID("teacher-id", "  ")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = optionalUUID("teacher-id", "6f1c1b1e-8d7a-4c39-9a43-2a2f7f4c1d10")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "6f1c1b1e-8d7a-4c39-9a43-2a2f7f4c1d10", id.String())

	_, err = optionalUUID("teacher-id", "nope")
	assert.ErrorContains(t, err, "--teacher-id")
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	hashPasswordCmd.SetOut(&out)
	t.Cleanup(func() { hashPasswordCmd.SetOut(nil) })

	require.NoError(t, hashPasswordCmd.RunE(hashPasswordCmd, []string{"hunter2"}))
	hashed := bytes.TrimSpace(out.Bytes())
	assert.NoError(t, bcrypt.CompareHashAndPassword(hashed, []byte("hunter2")))
}

func TestSeedCatalogFillsRecommendationTargets(t *testing.T) {
	theDB := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	first, err := seedCatalog(ctx, theDB, log, db.DefaultCatalog())
	require.NoError(t, err)
	assert.Positive(t, first.MajorsInserted)
	assert.Zero(t, first.UniversitiesInserted)

	majors, err := repos.NewMajorRepo(theDB, log).ListOrdered(dbctx.Context{Ctx: ctx})
	require.NoError(t, err)
	assert.Len(t, majors, first.MajorsInserted)

	again, err := seedCatalog(ctx, theDB, log, db.DefaultCatalog())
	require.NoError(t, err)
	assert.Zero(t, again.MajorsInserted)
}

func TestSeedCatalogRejectsMalformedFile(t *testing.T) {
	theDB := testutil.DB(t)
	_, err := seedCatalog(context.Background(), theDB, testutil.Logger(t), []byte("majors: {"))
	assert.ErrorContains(t, err, "parse catalog seed")
}
