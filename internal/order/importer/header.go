package importer

import "strings"

// Field 导入规范字段
type Field string

const (
	FieldOrderNo               Field = "orderNo"
	FieldCustomerName          Field = "customerName"
	FieldCustomerContact       Field = "customerContact"
	FieldCurrency              Field = "currency"
	FieldPaymentTerms          Field = "paymentTerms"
	FieldTotalAmount           Field = "totalAmount"
	FieldProductRequirements   Field = "productRequirements"
	FieldPackagingRequirements Field = "packagingRequirements"
	FieldProductName           Field = "productName"
	FieldSpec                  Field = "spec"
	FieldQuantity              Field = "quantity"
	FieldUnitPrice             Field = "unitPrice"
	FieldRemark                Field = "remark"
)

// Fields 模板列顺序
var Fields = []Field{
	FieldOrderNo,
	FieldCustomerName,
	FieldCustomerContact,
	FieldCurrency,
	FieldPaymentTerms,
	FieldTotalAmount,
	FieldProductRequirements,
	FieldPackagingRequirements,
	FieldProductName,
	FieldSpec,
	FieldQuantity,
	FieldUnitPrice,
	FieldRemark,
}

// 中文表头，模板与帮助页使用
var fieldLabels = map[Field]string{
	FieldOrderNo:               "订单号",
	FieldCustomerName:          "客户名称",
	FieldCustomerContact:       "联系人",
	FieldCurrency:              "币种",
	FieldPaymentTerms:          "付款方式",
	FieldTotalAmount:           "总金额",
	FieldProductRequirements:   "产品要求",
	FieldPackagingRequirements: "包装要求",
	FieldProductName:           "产品名称",
	FieldSpec:                  "规格",
	FieldQuantity:              "数量",
	FieldUnitPrice:             "单价",
	FieldRemark:                "备注",
}

// Label 中文列名
func (f Field) Label() string {
	return fieldLabels[f]
}

var headerAliases = map[Field][]string{
	FieldOrderNo:               {"orderno", "ordernumber", "order", "pono", "订单号", "订单编号", "合同号"},
	FieldCustomerName:          {"customername", "customer", "client", "客户", "客户名称", "客户名"},
	FieldCustomerContact:       {"customercontact", "contact", "contactperson", "联系人", "联系方式", "客户联系人"},
	FieldCurrency:              {"currency", "币种", "货币"},
	FieldPaymentTerms:          {"paymentterms", "payment", "terms", "付款方式", "付款条件", "结算方式"},
	FieldTotalAmount:           {"totalamount", "total", "amount", "总金额", "订单金额", "合计"},
	FieldProductRequirements:   {"productrequirements", "productreq", "productrequirement", "产品要求"},
	FieldPackagingRequirements: {"packagingrequirements", "packagingreq", "packagingrequirement", "packaging", "包装要求", "包装"},
	FieldProductName:           {"productname", "product", "item", "itemname", "产品", "产品名称", "品名"},
	FieldSpec:                  {"spec", "specification", "model", "规格", "规格型号", "型号"},
	FieldQuantity:              {"quantity", "qty", "数量", "订单数量"},
	FieldUnitPrice:             {"unitprice", "price", "单价", "价格"},
	FieldRemark:                {"remark", "remarks", "note", "notes", "备注", "说明"},
}

var aliasIndex = func() map[string]Field {
	idx := make(map[string]Field)
	for field, names := range headerAliases {
		for _, n := range names {
			idx[NormalizeHeader(n)] = field
		}
	}
	return idx
}()

var headerStripper = strings.NewReplacer(
	" ", "", "\u3000", "", "_", "", "-", "",
	"（", "", "）", "", "(", "", ")", "",
)

// NormalizeHeader 小写，去除空格、下划线、连字符和括号
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return headerStripper.Replace(strings.ToLower(strings.TrimSpace(h)))
}

// MatchHeader 无法识别返回 false
func MatchHeader(h string) (Field, bool) {
	f, ok := aliasIndex[NormalizeHeader(h)]
	return f, ok
}

// MapHeaders 字段到列下标；重复表头以第一次出现为准
func MapHeaders(headers []string) map[Field]int {
	cols := make(map[Field]int)
	for i, h := range headers {
		f, ok := MatchHeader(h)
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	return cols
}
