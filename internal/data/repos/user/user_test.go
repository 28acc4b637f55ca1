package user

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)

	repo := NewUserRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.User{{
		Email:    "  UserRepo@Example.com ",
		Password: "pw",
		FullName: "A B",
		Role:     "teacher",
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got == nil || got.Email != "userrepo@example.com" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}

	byEmail, err := repo.GetByEmail(dbc, "USERREPO@example.com")
	if err != nil || byEmail == nil || byEmail.ID != created[0].ID {
		t.Fatalf("GetByEmail: got=%+v err=%v", byEmail, err)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID (missing): got=%+v err=%v", missing, err)
	}

	exists, err := repo.EmailExists(dbc, "userrepo@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}
	exists, err = repo.EmailExists(dbc, "nobody@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists (missing): exists=%v err=%v", exists, err)
	}
}
