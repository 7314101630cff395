package importer

import (
	"fmt"
	"math"
	"strings"

	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/shopspring/decimal"
)

// Record 解码后的导入行
type Record struct {
	Line int

	OrderNo               string
	CustomerName          string
	CustomerContact       string
	Currency              string
	PaymentTerms          string
	TotalAmount           *decimal.Decimal
	ProductRequirements   string
	PackagingRequirements string

	ProductName string
	Spec        string
	Quantity    *int
	UnitPrice   *decimal.Decimal
	Remark      string
}

// HasItem 行内含任一明细字段；只有订单信息的续行不生成明细
func (r Record) HasItem() bool {
	return r.ProductName != "" || r.Spec != "" || r.Quantity != nil || r.UnitPrice != nil || r.Remark != ""
}

// 数量列为 int 列，超出 int32 视为格式错误
var maxQuantity = decimal.NewFromInt(math.MaxInt32)

var numberCleaner = strings.NewReplacer(",", "", "$", "", "¥", "", "￥", "", " ", "")

// ParseDecimal 空值返回 nil；容忍千分位与货币符号
func ParseDecimal(s string) (*decimal.Decimal, error) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseQuantity 整数；表格导出的 "10.0" 这类小数四舍五入，超出 int32 返回错误
func ParseQuantity(s string) (*int, error) {
	s = numberCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	d = d.Round(0)
	if d.Abs().GreaterThan(maxQuantity) {
		return nil, fmt.Errorf("quantity out of range: %s", s)
	}
	n := int(d.IntPart())
	return &n, nil
}

// Decode 表头映射 + 逐行解码校验；任一行出错整体拒绝，错误按行列出
func Decode(t *Table) ([]Record, error) {
	cols := MapHeaders(t.Headers)
	if _, ok := cols[FieldOrderNo]; !ok {
		return nil, errs.NewValidationError("missing required column: orderNo (order number)")
	}
	if len(t.Rows) == 0 {
		return nil, errs.NewValidationError("no data rows to import")
	}

	var (
		records  []Record
		problems []string
	)
	for _, row := range t.Rows {
		cell := func(f Field) string {
			i, ok := cols[f]
			if !ok || i >= len(row.Values) {
				return ""
			}
			return strings.TrimSpace(row.Values[i])
		}

		rec := Record{
			Line:                  row.Line,
			OrderNo:               cell(FieldOrderNo),
			CustomerName:          cell(FieldCustomerName),
			CustomerContact:       cell(FieldCustomerContact),
			Currency:              cell(FieldCurrency),
			PaymentTerms:          cell(FieldPaymentTerms),
			ProductRequirements:   cell(FieldProductRequirements),
			PackagingRequirements: cell(FieldPackagingRequirements),
			ProductName:           cell(FieldProductName),
			Spec:                  cell(FieldSpec),
			Remark:                cell(FieldRemark),
		}

		if rec.OrderNo == "" {
			problems = append(problems, fmt.Sprintf("Row %d is missing orderNo (order number)", row.Line))
		}

		var bad []string
		var err error
		if rec.Quantity, err = ParseQuantity(cell(FieldQuantity)); err != nil {
			bad = append(bad, string(FieldQuantity))
		}
		if rec.UnitPrice, err = ParseDecimal(cell(FieldUnitPrice)); err != nil {
			bad = append(bad, string(FieldUnitPrice))
		}
		if rec.TotalAmount, err = ParseDecimal(cell(FieldTotalAmount)); err != nil {
			bad = append(bad, string(FieldTotalAmount))
		}
		if len(bad) > 0 {
			problems = append(problems, fmt.Sprintf("Row %d has invalid number format: %s", row.Line, strings.Join(bad, ", ")))
		}
		if rec.Quantity != nil && *rec.Quantity < 0 {
			problems = append(problems, fmt.Sprintf("Row %d quantity must be >= 0", row.Line))
		}

		records = append(records, rec)
	}

	if len(problems) > 0 {
		return nil, errs.NewValidationError(fmt.Sprintf("import rejected: %d problem(s) found", len(problems)), problems...)
	}
	return records, nil
}
