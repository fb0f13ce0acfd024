package parser

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/martinuiga/french-auctions-clauding/internal/auction"

	"github.com/xuri/excelize/v2"
)

// ErrDecode is returned when a downloaded file cannot be opened as a workbook
// or as an archive of workbooks.
var ErrDecode = errors.New("decode workbook")

// Sheet is a worksheet as an ordered grid of cell texts.
type Sheet struct {
	Name string
	Rows [][]string
}

// WorkbookParser converts downloaded spreadsheets into auction records.
type WorkbookParser struct {
	logger *slog.Logger
}

func NewWorkbookParser(logger *slog.Logger) (*WorkbookParser, error) {
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	return &WorkbookParser{logger: logger}, nil
}

// Parse decodes content downloaded as sourceFile. Files named *.zip are read
// as archives of .xlsx workbooks. Only a file that cannot be opened at all is
// an error; sheets and rows that cannot be used are skipped.
func (p *WorkbookParser) Parse(sourceFile string, content []byte) ([]auction.Record, error) {
	if p == nil {
		return nil, errors.New("workbook parser is nil")
	}
	if sourceFile == "" {
		return nil, errors.New("source file is empty")
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: %s: content is empty", ErrDecode, sourceFile)
	}

	if strings.HasSuffix(strings.ToLower(sourceFile), ".zip") {
		return p.parseArchive(sourceFile, content)
	}

	return p.parseWorkbook(sourceFile, sourceFile, content)
}

func (p *WorkbookParser) parseArchive(sourceFile string, content []byte) ([]auction.Record, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: open zip: %v", ErrDecode, sourceFile, err)
	}

	var records []auction.Record
	var workbooks int
	for _, file := range archive.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if strings.HasPrefix(file.Name, "__MACOSX") {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(file.Name), ".xlsx") {
			continue
		}
		workbooks++

		member, err := readZipMember(file)
		if err != nil {
			p.logger.Warn("skipping archive member", "source_file", sourceFile, "member", file.Name, "reason", err)
			continue
		}

		parsed, err := p.parseWorkbook(sourceFile, path.Base(file.Name), member)
		if err != nil {
			p.logger.Warn("skipping archive member", "source_file", sourceFile, "member", file.Name, "reason", err)
			continue
		}
		records = append(records, parsed...)
	}

	if workbooks == 0 {
		return nil, fmt.Errorf("%w: %s: no xlsx files found in zip", ErrDecode, sourceFile)
	}

	return records, nil
}

func readZipMember(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open xlsx file: %w", err)
	}

	content, readErr := io.ReadAll(reader)
	closeErr := reader.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read xlsx file: %w", readErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close xlsx file: %w", closeErr)
	}

	return content, nil
}

func (p *WorkbookParser) parseWorkbook(sourceFile string, workbookName string, content []byte) ([]auction.Record, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, workbookName, err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			p.logger.Warn("close workbook", "workbook", workbookName, "reason", err)
		}
	}()

	var records []auction.Record
	for _, name := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			p.logger.Warn("skipping unreadable sheet", "workbook", workbookName, "sheet", name, "reason", err)
			continue
		}

		sheet := Sheet{Name: name, Rows: rows}
		records = append(records, p.ParseSheet(sheet, sourceFile, workbookName)...)
	}

	return records, nil
}

// ParseSheet extracts the records of a single sheet. When neither the sheet
// title nor its top rows name the auction month, the given fallback names
// (workbook or file names) are tried in order; a sheet whose date cannot be
// inferred yields no records.
func (p *WorkbookParser) ParseSheet(sheet Sheet, sourceFile string, fallbackNames ...string) []auction.Record {
	header, ok := LocateHeader(sheet.Rows)
	if !ok {
		p.logger.Debug("no header row found", "source_file", sourceFile, "sheet", sheet.Name)
		return nil
	}

	auctionDate, ok := sheetDate(sheet, sourceFile, fallbackNames)
	if !ok {
		p.logger.Warn("auction date not found, sheet skipped", "source_file", sourceFile, "sheet", sheet.Name)
		return nil
	}

	var records []auction.Record
	for _, row := range sheet.Rows[header.Row+1:] {
		record, ok := ExtractRecord(row, header, auctionDate, sourceFile)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	p.logger.Debug("parsed sheet",
		"source_file", sourceFile,
		"sheet", sheet.Name,
		"header_row", header.Row,
		"auction_date", auctionDate.Format(time.DateOnly),
		"records", len(records),
	)

	return records
}

func sheetDate(sheet Sheet, sourceFile string, fallbackNames []string) (time.Time, bool) {
	if date, ok := InferDate(sheet.Name, sheet.Rows); ok {
		return date, true
	}

	names := make([]string, 0, len(fallbackNames)+1)
	names = append(names, fallbackNames...)
	names = append(names, sourceFile)
	for _, name := range names {
		if date, ok := InferDate(name, nil); ok {
			return date, true
		}
	}

	return time.Time{}, false
}
