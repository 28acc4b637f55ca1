package ctxutil

import (
	"context"

	"github.com/yungbote/majoradvisor-backend/internal/domain/auth"
)

type requestDataKey struct{}

// RequestData carries the authenticated caller for the rest of the request.
type RequestData struct {
	TokenString string
	Principal   auth.Principal
	IPAddress   string
	UserAgent   string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
