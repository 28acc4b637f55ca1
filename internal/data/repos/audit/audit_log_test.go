package audit

import (
	"testing"
	"time"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
)

func TestAuditLogRepo(t *testing.T) {
	db := testutil.DB(t)
	dbc := testutil.DBC(testutil.Tx(t, db))
	repo := NewAuditLogRepo(db, testutil.Logger(t))

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, action := range []string{"create", "update", "delete"} {
		if err := repo.Create(dbc, &types.AuditLog{
			Action:    action,
			Entity:    "ai_recommendation",
			Severity:  types.SeverityMedium,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create %s: %v", action, err)
		}
	}

	rows, err := repo.ListRecent(dbc, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(rows) != 2 || rows[0].Action != "delete" || rows[1].Action != "update" {
		t.Fatalf("ListRecent: unexpected order %+v", rows)
	}
}
