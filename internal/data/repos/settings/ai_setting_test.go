package settings

import (
	"testing"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestAISettingRepo(t *testing.T) {
	db := testutil.DB(t)
	dbc := testutil.DBC(testutil.Tx(t, db))
	repo := NewAISettingRepo(db, testutil.Logger(t))

	got, err := repo.Get(dbc)
	if err != nil || got != nil {
		t.Fatalf("Get (empty): got=%+v err=%v", got, err)
	}

	if err := repo.Upsert(dbc, &types.AISetting{Model: strPtr("deepseek-reasoner")}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err = repo.Get(dbc)
	if err != nil || got == nil || got.Model == nil || *got.Model != "deepseek-reasoner" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
	if got.APIKey != nil || got.Temperature != nil {
		t.Fatalf("Get: unset columns should stay NULL, got %+v", got)
	}

	if err := repo.Upsert(dbc, &types.AISetting{Provider: strPtr("openai")}); err != nil {
		t.Fatalf("Upsert (replace): %v", err)
	}
	got, _ = repo.Get(dbc)
	if got.Model != nil || got.Provider == nil || *got.Provider != "openai" {
		t.Fatalf("Upsert should replace the row, got %+v", got)
	}
}
