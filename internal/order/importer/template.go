package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "订单导入"

// GenerateTemplate 生成订单导入模板xlsx
func GenerateTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", templateSheet)

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return nil, err
	}

	for i, field := range Fields {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(templateSheet, cell, string(field))
		f.SetCellStyle(templateSheet, cell, cell, boldStyle)
		f.SetColWidth(templateSheet, col, col, 16)
	}

	// 示例：同一订单两行明细，第二行只填明细
	samples := [][]string{
		{"SO-2024-001", "ACME Corp", "John", "USD", "T/T 30%", "1,250.00", "RoHS", "Carton", "Widget", "10x20mm", "10", "100.00", ""},
		{"SO-2024-001", "", "", "", "", "", "", "", "Gadget", "", "5", "50.00", "sample"},
	}
	for i, row := range samples {
		for j, val := range row {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(templateSheet, fmt.Sprintf("%s%d", col, i+2), val)
		}
	}

	// 填写说明sheet
	helpSheet := "填写说明"
	if _, err := f.NewSheet(helpSheet); err != nil {
		return nil, err
	}
	help := [][]string{{"列名", "中文", "说明", "是否必填"}}
	for _, field := range Fields {
		required := "否"
		if field == FieldOrderNo {
			required = "是"
		}
		help = append(help, []string{string(field), field.Label(), fieldHelp[field], required})
	}
	for i, row := range help {
		for j, val := range row {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue(helpSheet, fmt.Sprintf("%s%d", col, i+1), val)
		}
	}
	f.SetColWidth(helpSheet, "A", "B", 22)
	f.SetColWidth(helpSheet, "C", "C", 48)

	return f, nil
}

var fieldHelp = map[Field]string{
	FieldOrderNo:               "同一订单号的多行合并为一个订单，订单信息取第一行",
	FieldCustomerName:          "客户名称",
	FieldCustomerContact:       "客户联系人",
	FieldCurrency:              "如 USD / CNY",
	FieldPaymentTerms:          "付款条件",
	FieldTotalAmount:           "订单总金额，可带千分位和货币符号",
	FieldProductRequirements:   "产品要求",
	FieldPackagingRequirements: "包装要求",
	FieldProductName:           "明细产品名称",
	FieldSpec:                  "规格型号",
	FieldQuantity:              "整数数量",
	FieldUnitPrice:             "单价，可带货币符号",
	FieldRemark:                "明细备注",
}
