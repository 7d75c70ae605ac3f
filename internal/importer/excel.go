package importer

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Annany2002/domain-ledger/internal/core"
	"github.com/Annany2002/domain-ledger/internal/domain"
)

var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrNoSheet         = errors.New("workbook has no sheet")
	ErrMissingHeader   = errors.New("workbook is missing the domain name header")
)

const headerRowIndex = 1 // Excel rows are 1-based, header is row 1

// Header aliases for the domain name column; the only required column.
var domainNameHeaders = []string{"域名", "domain_name"}

// Accepted timestamp layouts for text cells.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC3339,
}

// DomainRow is a parsed spreadsheet row ready to be stored.
type DomainRow struct {
	Row    int // Excel row number (for error reporting)
	Domain domain.Domain
}

// ImportError represents a validation error for a specific row.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type assignFunc func(d *domain.Domain, raw string, date1904 bool)

func text(target func(*domain.Domain) **string) assignFunc {
	return func(d *domain.Domain, raw string, _ bool) {
		v := raw
		*target(d) = &v
	}
}

func smallInt(target func(*domain.Domain) **int64) assignFunc {
	return func(d *domain.Domain, raw string, _ bool) {
		*target(d) = parseSmallInt(raw)
	}
}

func timestamp(target func(*domain.Domain) **time.Time) assignFunc {
	return func(d *domain.Domain, raw string, date1904 bool) {
		*target(d) = parseTimestamp(raw, date1904)
	}
}

// columnFields maps header aliases (lowercased) onto domain fields.
var columnFields = []struct {
	headers []string
	assign  assignFunc
}{
	{[]string{"域名状态", "domain_status"}, text(func(d *domain.Domain) **string { return &d.DomainStatus })},
	{[]string{"建站年龄", "domain_age"}, smallInt(func(d *domain.Domain) **int64 { return &d.DomainAge })},
	{[]string{"记录数", "order_no"}, smallInt(func(d *domain.Domain) **int64 { return &d.OrderNo })},
	{[]string{"语言", "language"}, text(func(d *domain.Domain) **string { return &d.Language })},
	{[]string{"标题", "title"}, text(func(d *domain.Domain) **string { return &d.Title })},
	{[]string{"评分", "score"}, smallInt(func(d *domain.Domain) **int64 { return &d.Score })},
	{[]string{"dns"}, text(func(d *domain.Domain) **string { return &d.DNS })},
	{[]string{"注册商", "registrar_name"}, text(func(d *domain.Domain) **string { return &d.RegistrarName })},
	{[]string{"注册商地址", "registrar_address"}, text(func(d *domain.Domain) **string { return &d.RegistrarAddress })},
	{[]string{"注册人", "registrar_by"}, text(func(d *domain.Domain) **string { return &d.RegistrarBy })},
	{[]string{"email"}, text(func(d *domain.Domain) **string { return &d.Email })},
	{[]string{"注册时间", "registrar_at"}, timestamp(func(d *domain.Domain) **time.Time { return &d.RegistrarAt })},
	{[]string{"到期时间", "expire_at"}, timestamp(func(d *domain.Domain) **time.Time { return &d.ExpireAt })},
	{[]string{"备案状态", "record_status"}, text(func(d *domain.Domain) **string { return &d.RecordStatus })},
	{[]string{"备案时间", "record_at"}, timestamp(func(d *domain.Domain) **time.Time { return &d.RecordAt })},
	{[]string{"备案主体", "record_main_body"}, text(func(d *domain.Domain) **string { return &d.RecordMainBody })},
	{[]string{"备案类型", "record_type"}, text(func(d *domain.Domain) **string { return &d.RecordType })},
	{[]string{"备案号", "record_no"}, text(func(d *domain.Domain) **string { return &d.RecordNo })},
	{[]string{"备案名", "record_name"}, text(func(d *domain.Domain) **string { return &d.RecordName })},
}

var headerFields = func() map[string]assignFunc {
	m := make(map[string]assignFunc)
	for _, f := range columnFields {
		for _, h := range f.headers {
			m[h] = f.assign
		}
	}
	return m
}()

// ParseFile opens an .xlsx file from disk and parses it with ParseWorkbook.
func ParseFile(path string) ([]DomainRow, []ImportError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return ParseWorkbook(file)
}

// ParseWorkbook reads the first sheet of an .xlsx workbook. Row 1 holds the headers;
// columns are matched by header text and unknown headers are ignored. Rows that cannot
// be imported are returned as ImportErrors instead of failing the whole workbook.
func ParseWorkbook(r io.Reader) ([]DomainRow, []ImportError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoSheet
	}

	date1904 := false
	if props, propsErr := f.GetWorkbookProps(); propsErr == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(rows) < headerRowIndex {
		return nil, nil, ErrMissingHeader
	}

	nameCol := -1
	assigners := make(map[int]assignFunc)
	for i, header := range rows[headerRowIndex-1] {
		key := strings.ToLower(strings.TrimSpace(header))
		if isDomainNameHeader(key) {
			nameCol = i
			continue
		}
		if assign, ok := headerFields[key]; ok {
			assigners[i] = assign
		}
	}
	if nameCol < 0 {
		return nil, nil, ErrMissingHeader
	}

	var parsed []DomainRow
	var rowErrors []ImportError
	for i, cells := range rows[headerRowIndex:] {
		rowNum := i + headerRowIndex + 1
		if isBlankRow(cells) {
			continue
		}

		name := core.NormalizeDomainName(cellAt(cells, nameCol))
		if name == "" {
			rowErrors = append(rowErrors, ImportError{Row: rowNum, Error: "domain name is required"})
			continue
		}
		if !core.IsValidDomainName(name) {
			rowErrors = append(rowErrors, ImportError{Row: rowNum, Error: fmt.Sprintf("invalid domain name %q", name)})
			continue
		}

		d := domain.Domain{DomainName: name}
		for col, assign := range assigners {
			if raw := cellAt(cells, col); raw != "" {
				assign(&d, raw, date1904)
			}
		}
		parsed = append(parsed, DomainRow{Row: rowNum, Domain: d})
	}

	return parsed, rowErrors, nil
}

func isDomainNameHeader(key string) bool {
	for _, h := range domainNameHeaders {
		if key == h {
			return true
		}
	}
	return false
}

func cellAt(cells []string, col int) string {
	if col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseSmallInt accepts whole numbers from 0 to 255 and returns nil for anything else.
func parseSmallInt(raw string) *int64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || v < 0 || v > math.MaxUint8 {
		return nil
	}
	n := int64(v)
	return &n
}

// parseTimestamp accepts Excel serial dates and the text layouts in timeLayouts.
func parseTimestamp(raw string, date1904 bool) *time.Time {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return nil
		}
		return &t
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
