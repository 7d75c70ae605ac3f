package importer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Annany2002/domain-ledger/config"
	"github.com/Annany2002/domain-ledger/internal/importer"
	"github.com/Annany2002/domain-ledger/internal/storage"
)

// Headers as produced by the upstream domain export, including columns the
// domain table has no place for.
var exportHeaders = []string{
	"域名", "建站年龄", "记录数", "开始时间", "结束时间", "标题", "语言", "评分", "DNS",
	"注册商", "注册商地址", "注册人", "Email", "注册时间", "到期时间", "更新时间",
	"备案状态", "备案时间", "备案主体", "备案类型", "备案号", "备案名",
}

// buildWorkbook writes headers and rows to Sheet1 of a new workbook.
func buildWorkbook(t *testing.T, headers []string, rows [][]any) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheetName := "Sheet1"

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			t.Fatalf("failed to set header cell: %v", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			if val == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				t.Fatalf("failed to set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to write Excel file: %v", err)
	}

	return bytes.NewReader(buf.Bytes())
}

func TestParseWorkbookExportLayout(t *testing.T) {
	registered := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := [][]any{
		{
			"Example.COM", 9, 120, "2015-06-01", "2024-06-01", "Example Domain", "en", 87, "ns1.example.com",
			"Example Registrar", "1 Registrar Way", "Jane Doe", "admin@example.com", registered, "2030-06-01 12:30:00", "2024-01-01",
			"已备案", "2019/03/04", "Example Ltd", "企业", "京ICP备12345678号", "Example Site",
		},
		{"partial.cn", "unknown", 300, nil, nil, nil, nil, 12.5},
		{},
		{"", 3},
		{"not a domain", 1},
		{"例子.中国", 5},
		{"中文域名.CN", 6},
		{"xn--fsqu00a.xn--fiqs8s", 7},
	}

	parsed, rowErrors, err := importer.ParseWorkbook(buildWorkbook(t, exportHeaders, rows))
	require.NoError(t, err)
	require.Len(t, parsed, 5)

	full := parsed[0]
	assert.Equal(t, 2, full.Row)
	d := full.Domain
	assert.Equal(t, "example.com", d.DomainName)
	assert.Equal(t, int64(9), *d.DomainAge)
	assert.Equal(t, int64(120), *d.OrderNo)
	assert.Equal(t, "Example Domain", *d.Title)
	assert.Equal(t, "en", *d.Language)
	assert.Equal(t, int64(87), *d.Score)
	assert.Equal(t, "ns1.example.com", *d.DNS)
	assert.Equal(t, "Example Registrar", *d.RegistrarName)
	assert.Equal(t, "1 Registrar Way", *d.RegistrarAddress)
	assert.Equal(t, "Jane Doe", *d.RegistrarBy)
	assert.Equal(t, "admin@example.com", *d.Email)
	require.NotNil(t, d.RegistrarAt)
	assert.WithinDuration(t, registered, *d.RegistrarAt, time.Second)
	require.NotNil(t, d.ExpireAt)
	assert.Equal(t, time.Date(2030, 6, 1, 12, 30, 0, 0, time.UTC), *d.ExpireAt)
	assert.Equal(t, "已备案", *d.RecordStatus)
	require.NotNil(t, d.RecordAt)
	assert.Equal(t, time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC), *d.RecordAt)
	assert.Equal(t, "Example Ltd", *d.RecordMainBody)
	assert.Equal(t, "企业", *d.RecordType)
	assert.Equal(t, "京ICP备12345678号", *d.RecordNo)
	assert.Equal(t, "Example Site", *d.RecordName)
	assert.Nil(t, d.DomainStatus, "no column maps to domain_status in the export layout")

	partial := parsed[1].Domain
	assert.Equal(t, 3, parsed[1].Row)
	assert.Equal(t, "partial.cn", partial.DomainName)
	assert.Nil(t, partial.DomainAge, "non-numeric age becomes NULL")
	assert.Nil(t, partial.OrderNo, "values above 255 become NULL")
	assert.Nil(t, partial.Score, "fractional score becomes NULL")
	assert.Nil(t, partial.Title)

	idn := parsed[2]
	assert.Equal(t, 7, idn.Row)
	assert.Equal(t, "例子.中国", idn.Domain.DomainName)
	assert.Equal(t, int64(5), *idn.Domain.DomainAge)
	assert.Equal(t, "中文域名.cn", parsed[3].Domain.DomainName)
	assert.Equal(t, "例子.中国", parsed[4].Domain.DomainName, "punycode is stored in its Unicode form")

	require.Len(t, rowErrors, 2)
	assert.Equal(t, importer.ImportError{Row: 5, Error: "domain name is required"}, rowErrors[0])
	assert.Equal(t, 6, rowErrors[1].Row)
	assert.Contains(t, rowErrors[1].Error, "invalid domain name")
}

func TestParseWorkbookColumnNameHeaders(t *testing.T) {
	headers := []string{"Title", "domain_name", "domain_status", "unrelated"}
	rows := [][]any{{"Hello", "hello.dev", "active", "ignored"}}

	parsed, rowErrors, err := importer.ParseWorkbook(buildWorkbook(t, headers, rows))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, parsed, 1)
	assert.Equal(t, "hello.dev", parsed[0].Domain.DomainName)
	assert.Equal(t, "Hello", *parsed[0].Domain.Title)
	assert.Equal(t, "active", *parsed[0].Domain.DomainStatus)
}

func TestParseWorkbookErrors(t *testing.T) {
	t.Run("missing domain header", func(t *testing.T) {
		_, _, err := importer.ParseWorkbook(buildWorkbook(t, []string{"标题", "语言"}, [][]any{{"a", "b"}}))
		assert.ErrorIs(t, err, importer.ErrMissingHeader)
	})

	t.Run("empty sheet", func(t *testing.T) {
		_, _, err := importer.ParseWorkbook(buildWorkbook(t, nil, nil))
		assert.ErrorIs(t, err, importer.ErrMissingHeader)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, _, err := importer.ParseWorkbook(strings.NewReader("domain_name\nexample.com\n"))
		assert.ErrorIs(t, err, importer.ErrInvalidWorkbook)
	})
}

func TestStore(t *testing.T) {
	db, err := storage.ConnectDB(&config.Config{DatabaseDir: t.TempDir(), DatabaseFile: "import.db"})
	require.NoError(t, err)
	defer db.Close()

	rows := [][]any{
		{"store.com", nil, nil, nil, nil, "First"},
		{"other.com"},
		{"store.com", nil, nil, nil, nil, nil, "zh"},
	}
	parsed, _, err := importer.ParseWorkbook(buildWorkbook(t, exportHeaders, rows))
	require.NoError(t, err)

	var reports []error
	err = importer.Store(context.Background(), db, parsed, func(rowErr error) { reports = append(reports, rowErr) })
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.NoError(t, r)
	}

	stored, err := storage.FindDomainByName(context.Background(), db, "store.com")
	require.NoError(t, err)
	assert.Equal(t, "First", *stored.Title, "a later row without a title keeps the earlier one")
	assert.Equal(t, "zh", *stored.Language)

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		err := importer.Store(ctx, db, parsed, func(error) { calls++ })
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Zero(t, calls)
	})
}
