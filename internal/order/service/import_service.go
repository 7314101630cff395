package service

import (
	"context"
	"fmt"
	"io"

	"github.com/bitfantasy/ordertrack/internal/order/audit"
	"github.com/bitfantasy/ordertrack/internal/order/importer"
	"github.com/bitfantasy/ordertrack/internal/order/repository"
	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportService 批量导入订单，整批全有或全无
type ImportService struct {
	*base
}

// PreviewOrder 预览模式下的分组结果
type PreviewOrder struct {
	OrderNo string `json:"order_no"`
	Items   int    `json:"items"`
	Rows    []int  `json:"rows"`
}

// ImportResult 导入结果
type ImportResult struct {
	ImportedOrders int            `json:"imported_orders"`
	ImportedItems  int            `json:"imported_items"`
	Messages       []string       `json:"messages"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Orders         []PreviewOrder `json:"orders,omitempty"`
}

// ImportFile 按扩展名解析 csv / xlsx
func (s *ImportService) ImportFile(ctx context.Context, actor Actor, filename string, r io.Reader, dryRun bool) (*ImportResult, error) {
	return s.run(ctx, actor, "file "+filename, dryRun, func() (*importer.Table, error) {
		return importer.ParseFile(filename, r)
	})
}

// ImportText 粘贴文本导入，delimiter 为空时自动识别
func (s *ImportService) ImportText(ctx context.Context, actor Actor, text, delimiter string, dryRun bool) (*ImportResult, error) {
	return s.run(ctx, actor, "text", dryRun, func() (*importer.Table, error) {
		return importer.ParseText(text, delimiter)
	})
}

// Template 导入模板
func (s *ImportService) Template() (*excelize.File, error) {
	return importer.GenerateTemplate()
}

func (s *ImportService) run(ctx context.Context, actor Actor, source string, dryRun bool, parse func() (*importer.Table, error)) (result *ImportResult, err error) {
	defer func() {
		if dryRun && err == nil {
			return
		}
		details := source
		if result != nil {
			details = fmt.Sprintf("%s: %d orders, %d items", source, result.ImportedOrders, result.ImportedItems)
		}
		s.record(ctx, actor, audit.ActionImportOrders, "batch", err, details)
	}()

	if err := need(actor.Capabilities().CanImportOrders, "canImportOrders"); err != nil {
		return nil, err
	}

	table, err := parse()
	if err != nil {
		return nil, err
	}
	records, err := importer.Decode(table)
	if err != nil {
		return nil, err
	}
	groups := importer.GroupRecords(records)
	orderNos := importer.OrderNos(groups)

	existing, err := s.repos.Order.FindByOrderNos(ctx, orderNos)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		dups := make([]string, 0, len(existing))
		for _, o := range existing {
			dups = append(dups, o.OrderNo)
		}
		return nil, errs.NewConflictError("Import aborted: duplicate orderNo already exists in the database", dups...)
	}

	orders := importer.Materialize(groups, s.now())
	items := 0
	for _, o := range orders {
		items += len(o.Items)
	}

	if dryRun {
		preview := make([]PreviewOrder, 0, len(groups))
		for _, g := range groups {
			preview = append(preview, PreviewOrder{OrderNo: g.OrderNo, Items: g.ItemCount(), Rows: g.Lines()})
		}
		return &ImportResult{
			ImportedOrders: len(orders),
			ImportedItems:  items,
			Messages:       []string{"Preview only, nothing imported"},
			DryRun:         true,
			Orders:         preview,
		}, nil
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		return tx.Order.BatchCreate(ctx, orders)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("orders imported",
		zap.String("source", source),
		zap.Int("orders", len(orders)),
		zap.Int("items", items),
		zap.String("by", actor.Username))
	for i := range orders {
		s.publish(&orders[i], audit.ActionImportOrders)
	}
	return &ImportResult{
		ImportedOrders: len(orders),
		ImportedItems:  items,
		Messages:       []string{"Import succeeded"},
	}, nil
}
