// Package audit records who did what to which order. Recording is best
// effort: a failing sink is logged and never fails the business action.
package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitfantasy/ordertrack/internal/order/entity"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// 审计动作
const (
	ActionCreateOrder             = "CREATE_ORDER"
	ActionUpdateOrder             = "UPDATE_ORDER"
	ActionDeleteOrder             = "DELETE_ORDER"
	ActionForceStatus             = "FORCE_STATUS"
	ActionWarehouseReceiptLog     = "WAREHOUSE_RECEIPT_LOG"
	ActionWarehouseReceiptConfirm = "WAREHOUSE_RECEIPT_CONFIRM"
	ActionShipConfirm             = "SHIP_CONFIRM"
	ActionImportOrders            = "IMPORT_ORDERS"
)

// Entry 一条审计记录
type Entry struct {
	Username string
	Role     string
	Action   string
	Target   string
	Success  bool
	IP       string
	Details  string
}

type Sink interface {
	Record(ctx context.Context, e Entry)
}

// NopSink 丢弃所有记录
type NopSink struct{}

func (NopSink) Record(context.Context, Entry) {}

// GormSink 写入 ot_audit_logs
type GormSink struct {
	repo   *repository.AuditRepository
	logger *zap.Logger
}

func NewGormSink(repo *repository.AuditRepository, logger *zap.Logger) *GormSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormSink{repo: repo, logger: logger}
}

func (s *GormSink) Record(ctx context.Context, e Entry) {
	status := entity.AuditFail
	if e.Success {
		status = entity.AuditSuccess
	}
	row := &entity.AuditLog{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Username:  e.Username,
		Role:      e.Role,
		Action:    strings.ToUpper(e.Action),
		Target:    e.Target,
		Status:    status,
		IP:        e.IP,
		Details:   e.Details,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Warn("audit record failed",
			zap.String("action", row.Action),
			zap.String("target", row.Target),
			zap.Error(err))
	}
}

// MemorySink 内存记录，测试使用
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *MemorySink) Record(_ context.Context, e Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
}

func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ClientIP X-Forwarded-For 第一个地址优先，其次 X-Real-IP，最后连接地址
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
