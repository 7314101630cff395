package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bitfantasy/ordertrack/internal/pkg/errs"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// RawRow 原始数据行，Line 为源文件中的行号（表头为第1行）
type RawRow struct {
	Line   int
	Values []string
}

// Table 解析结果：表头 + 数据行，全空行已剔除
type Table struct {
	Headers []string
	Rows    []RawRow
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// ===== 粘贴文本 =====

var lineBreak = regexp.MustCompile(`\r?\n`)

// ResolveDelimiter 解析分隔符提示；无法识别时按全文中制表符与逗号的数量自动判断
func ResolveDelimiter(hint, text string) rune {
	h := strings.TrimSpace(hint)
	switch strings.ToLower(h) {
	case "tab", `\t`:
		return '\t'
	case "comma", ",":
		return ','
	case "semicolon", ";":
		return ';'
	}
	if hint == "\t" {
		return '\t'
	}
	if utf8.RuneCountInString(h) == 1 {
		r, _ := utf8.DecodeRuneInString(h)
		return r
	}
	if strings.Count(text, "\t") >= strings.Count(text, ",") {
		return '\t'
	}
	return ','
}

// SplitFields 按分隔符拆分，双引号内的分隔符不拆分，"" 转义为一个引号
func SplitFields(line string, delim rune) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuote && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuote = !inQuote
		case r == delim && !inQuote:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields
}

// ParseText 解析粘贴的分隔文本，行号为非空行序号
func ParseText(text, delimiterHint string) (*Table, error) {
	var lines []string
	for _, l := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return nil, errs.NewValidationError("text must contain a header row and at least one data row")
	}

	delim := ResolveDelimiter(delimiterHint, text)
	t := &Table{Headers: SplitFields(lines[0], delim)}
	for i, l := range lines[1:] {
		values := SplitFields(l, delim)
		if blank(values) {
			continue
		}
		t.Rows = append(t.Rows, RawRow{Line: i + 2, Values: values})
	}
	return t, nil
}

// ===== CSV =====

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText 去除 BOM；非 UTF-8 内容按 GBK 解码（中文 Windows Excel 导出的 CSV）
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errs.NewValidationError("unsupported text encoding", err.Error())
	}
	return out, nil
}

// ParseCSV 首行为表头，行号取源文件中的物理行
func ParseCSV(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var t *Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.NewValidationError("malformed csv", err.Error())
		}
		line, _ := cr.FieldPos(0)
		if t == nil {
			t = &Table{Headers: trimAll(rec)}
			continue
		}
		if blank(rec) {
			continue
		}
		t.Rows = append(t.Rows, RawRow{Line: line, Values: trimAll(rec)})
	}
	if t == nil {
		return nil, errs.NewValidationError("file is empty")
	}
	return t, nil
}

// ===== Excel =====

// ParseXLSX 读取第一个工作表，第一个非空行为表头，行号为工作表可见行号
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.NewValidationError("cannot read spreadsheet", err.Error())
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errs.NewValidationError("cannot read spreadsheet", err.Error())
	}

	var t *Table
	for i, row := range rows {
		if blank(row) {
			continue
		}
		if t == nil {
			t = &Table{Headers: trimAll(row)}
			continue
		}
		t.Rows = append(t.Rows, RawRow{Line: i + 1, Values: trimAll(row)})
	}
	if t == nil {
		return nil, errs.NewValidationError("file is empty")
	}
	return t, nil
}

// ParseFile 按扩展名选择解析方式
func ParseFile(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xls":
		return ParseXLSX(r)
	default:
		return nil, errs.NewValidationError(fmt.Sprintf("unsupported file type %q, expected .csv, .xlsx or .xls", filepath.Ext(filename)))
	}
}
