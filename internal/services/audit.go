package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/ctxutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

const (
	DefaultAuditBuffer = 256
	auditWriteTimeout  = 5 * time.Second
)

var ErrAuditClosed = errors.New("audit recorder closed")

type AuditEntry struct {
	UserID      *uuid.UUID
	UserName    string
	Action      string
	Entity      string
	Description string
	IPAddress   string
	UserAgent   string
	Severity    string
}

// AuditEntryFromContext fills the actor and client fields from request data.
func AuditEntryFromContext(ctx context.Context, action, entity, description, severity string) AuditEntry {
	e := AuditEntry{Action: action, Entity: entity, Description: description, Severity: severity}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		if rd.Principal.UserID != uuid.Nil {
			id := rd.Principal.UserID
			e.UserID = &id
		}
		e.UserName = rd.Principal.Name
		e.IPAddress = rd.IPAddress
		e.UserAgent = rd.UserAgent
	}
	if e.UserName == "" {
		e.UserName = "Unknown"
	}
	if e.Severity == "" {
		e.Severity = types.SeverityLow
	}
	return e
}

// AuditRecorder writes audit rows off the request path. Record never blocks
// and never reports failure to the caller; write errors surface on Errors().
type AuditRecorder interface {
	Record(entry AuditEntry)
	Errors() <-chan error
	// Close stops accepting entries and waits for queued ones to be written.
	Close(ctx context.Context) error
}

type auditRecorder struct {
	log   *logger.Logger
	repo  repos.AuditLogRepo
	now   func() time.Time
	queue chan *types.AuditLog
	errs  chan error
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAuditRecorder(log *logger.Logger, repo repos.AuditLogRepo, buffer int) AuditRecorder {
	if buffer <= 0 {
		buffer = DefaultAuditBuffer
	}
	r := &auditRecorder{
		log:   log.With("service", "AuditRecorder"),
		repo:  repo,
		now:   time.Now,
		queue: make(chan *types.AuditLog, buffer),
		errs:  make(chan error, 16),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *auditRecorder) Record(entry AuditEntry) {
	row := &types.AuditLog{
		UserID:      entry.UserID,
		UserName:    entry.UserName,
		Action:      entry.Action,
		Entity:      entry.Entity,
		Description: entry.Description,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		Severity:    entry.Severity,
		CreatedAt:   r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		observability.Current().IncAudit("dropped")
		r.log.Warn("audit entry after close dropped", "action", entry.Action, "entity", entry.Entity)
		return
	}
	select {
	case r.queue <- row:
	default:
		observability.Current().IncAudit("dropped")
		r.log.Warn("audit queue full, entry dropped", "action", entry.Action, "entity", entry.Entity)
	}
}

func (r *auditRecorder) Errors() <-chan error { return r.errs }

func (r *auditRecorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *auditRecorder) run() {
	defer close(r.done)
	defer close(r.errs)
	for row := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		err := r.repo.Create(dbctx.Context{Ctx: ctx}, row)
		cancel()
		if err == nil {
			observability.Current().IncAudit("written")
			continue
		}
		observability.Current().IncAudit("failed")
		r.log.Warn("audit write failed", "action", row.Action, "entity", row.Entity, "error", err)
		select {
		case r.errs <- err:
		default:
		}
	}
}

type AuditLogService interface {
	ListRecent(ctx context.Context, limit int) ([]*types.AuditLog, error)
}

type auditLogService struct {
	log  *logger.Logger
	repo repos.AuditLogRepo
}

func NewAuditLogService(log *logger.Logger, repo repos.AuditLogRepo) AuditLogService {
	return &auditLogService{log: log.With("service", "AuditLogService"), repo: repo}
}

func (s *auditLogService) ListRecent(ctx context.Context, limit int) ([]*types.AuditLog, error) {
	return s.repo.ListRecent(dbctx.Context{Ctx: ctx}, limit)
}
