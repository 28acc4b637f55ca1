package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
)

func TestRecommendationRepoCreateAccumulates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := testutil.DBC(tx)
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	st := testutil.SeedStudent(t, ctx, tx, "Sara", nil, "", "")
	cs := testutil.SeedMajor(t, ctx, tx, "Computer Science")

	for i := 0; i < 2; i++ {
		created, err := repo.Create(dbc, []*types.Recommendation{{
			StudentID:       st.ID,
			MajorID:         cs.ID,
			GeneratedAt:     time.Now().UTC(),
			ConfidenceScore: 0.85,
			ModelVersion:    "deepseek:deepseek-chat",
		}})
		if err != nil || len(created) != 1 || created[0].ID == uuid.Nil {
			t.Fatalf("Create #%d: %+v err=%v", i, created, err)
		}
	}

	n, err := repo.CountByStudent(dbc, st.ID)
	if err != nil || n != 2 {
		t.Fatalf("CountByStudent: n=%d err=%v", n, err)
	}
}

func TestRecommendationRepoViews(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := testutil.DBC(tx)
	repo := NewRecommendationRepo(db, testutil.Logger(t))

	sara := testutil.SeedStudent(t, ctx, tx, "Sara", nil, "", "")
	omar := testutil.SeedStudent(t, ctx, tx, "Omar", nil, "", "")
	cs := testutil.SeedMajor(t, ctx, tx, "Computer Science")
	med := testutil.SeedMajor(t, ctx, tx, "Medicine")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := testutil.SeedRecommendation(t, ctx, tx, sara.ID, cs.ID, base)
	newer := testutil.SeedRecommendation(t, ctx, tx, sara.ID, med.ID, base.Add(time.Hour))
	testutil.SeedRecommendation(t, ctx, tx, omar.ID, med.ID, base.Add(2*time.Hour))

	own, err := repo.ListByStudentIDs(dbc, []uuid.UUID{sara.ID})
	if err != nil {
		t.Fatalf("ListByStudentIDs: %v", err)
	}
	if len(own) != 2 || own[0].ID != newer.ID || own[1].ID != older.ID {
		t.Fatalf("ListByStudentIDs: expected newest first, got %+v", own)
	}
	if own[0].MajorName != "Medicine" || own[0].StudentName != "Sara" || own[0].MajorDescription != "Medicine description" {
		t.Fatalf("ListByStudentIDs: join fields %+v", own[0])
	}

	byMajor, err := repo.ListByMajorIDs(dbc, []uuid.UUID{med.ID})
	if err != nil || len(byMajor) != 2 {
		t.Fatalf("ListByMajorIDs: len=%d err=%v", len(byMajor), err)
	}

	latest, err := repo.ListLatest(dbc, 1)
	if err != nil || len(latest) != 1 || latest[0].StudentID != omar.ID {
		t.Fatalf("ListLatest: %+v err=%v", latest, err)
	}

	empty, err := repo.ListByStudentIDs(dbc, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("ListByStudentIDs(nil): %+v err=%v", empty, err)
	}
}
