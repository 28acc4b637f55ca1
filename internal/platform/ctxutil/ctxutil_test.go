package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yungbote/majoradvisor-backend/internal/domain/auth"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{
		Principal: auth.Principal{UserID: id, Role: auth.RoleTeacher},
	})
	rd := GetRequestData(ctx)
	if assert.NotNil(t, rd) {
		assert.Equal(t, id, rd.Principal.UserID)
	}
	assert.Nil(t, GetRequestData(context.Background()))
}

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t", RequestID: "r"})
	td := GetTraceData(ctx)
	if assert.NotNil(t, td) {
		assert.Equal(t, "r", td.RequestID)
	}
	assert.Nil(t, GetTraceData(context.Background()))
}
