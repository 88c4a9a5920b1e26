// Package creditparser reads fiscal-credit exports: UTF-16LE text with a
// byte-order mark, tab-delimited, quoted fields, one header row.
package creditparser

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/credit-summary/internal/currencyutils"
	"fjacquet/credit-summary/internal/dateutils"
	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/models"
	"fjacquet/credit-summary/internal/parsererror"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column names of the export, after header normalization.
const (
	ColumnIssuer       = "Emitente"
	ColumnTaxID        = "CNPJ emit."
	ColumnCreditStatus = "Situação do Crédito"
	ColumnInvoiceValue = "Valor NF"
	ColumnCreditValue  = "Créditos"
	ColumnIssueDate    = "Data Emissão"
	ColumnSequenceID   = "No."
)

// RequiredColumns lists the header names every export must carry.
var RequiredColumns = []string{
	ColumnIssuer,
	ColumnTaxID,
	ColumnCreditStatus,
	ColumnInvoiceValue,
	ColumnCreditValue,
	ColumnIssueDate,
	ColumnSequenceID,
}

// CreditCSVRow is one export row before typing. It uses struct tags for
// gocsv unmarshaling; columns not listed here are ignored.
type CreditCSVRow struct {
	Issuer       string `csv:"Emitente"`
	TaxID        string `csv:"CNPJ emit."`
	CreditStatus string `csv:"Situação do Crédito"`
	InvoiceValue string `csv:"Valor NF"`
	CreditValue  string `csv:"Créditos"`
	IssueDate    string `csv:"Data Emissão"`
	SequenceID   string `csv:"No."`
}

var (
	bomLE = []byte{0xFF, 0xFE}
	bomBE = []byte{0xFE, 0xFF}
)

// Parser turns one RawFile into typed records. It holds no mutable state and
// may be used from several goroutines.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a Parser. A nil logger falls back to the default logger.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Parser{logger: logger}
}

// Parse decodes file and types every row. Any failure aborts the file: a
// bad encoding or field layout gives a *parsererror.FileReadError, missing
// columns a *parsererror.SchemaError and an unparsable amount a
// *parsererror.TypeConversionError. Unreadable issue dates are not errors;
// they land in the invalid-date bucket.
func (p *Parser) Parse(ctx context.Context, file models.RawFile) ([]models.Record, error) {
	log := p.logger.WithField(logging.FieldFile, file.Name)
	log.Debug("Parsing credit export")

	header, body, err := p.readRows(file)
	if err != nil {
		log.WithError(err).Error("Failed to read credit export")
		return nil, err
	}

	if missing := missingColumns(header); len(missing) > 0 {
		err := &parsererror.SchemaError{File: file.Name, Missing: missing}
		log.WithError(err).Error("Credit export has an incomplete header")
		return nil, err
	}

	var rows []CreditCSVRow
	if err := gocsv.UnmarshalCSV(&rowSource{rows: append([][]string{header}, body...)}, &rows); err != nil {
		return nil, &parsererror.FileReadError{File: file.Name, Reason: "cannot map rows to columns", Err: err}
	}

	records := make([]models.Record, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := convertRow(file.Name, i+1, row)
		if err != nil {
			log.WithError(err).Error("Failed to convert row")
			return nil, err
		}
		records = append(records, rec)
	}

	log.Info("Parsed credit export", logging.F(logging.FieldCount, len(records)))
	return records, nil
}

// readRows decodes the UTF-16 content and splits it into a normalized header
// and the data rows.
func (p *Parser) readRows(file models.RawFile) ([]string, [][]string, error) {
	content := file.Content
	if len(content) == 0 {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "file is empty"}
	}
	if !bytes.HasPrefix(content, bomLE) && !bytes.HasPrefix(content, bomBE) {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "invalid encoding", Err: unicode.ErrMissingBOM}
	}
	if len(content)%2 != 0 {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "invalid encoding", Err: errors.New("truncated UTF-16 stream")}
	}

	if err := checkSurrogates(content); err != nil {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "invalid encoding", Err: err}
	}

	decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(content), decoder))
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "file has no header row"}
	}
	if err != nil {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "malformed delimiter structure", Err: err}
	}

	body, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &parsererror.FileReadError{File: file.Name, Reason: "malformed delimiter structure", Err: err}
	}

	return NormalizeHeader(header), body, nil
}

// checkSurrogates rejects unpaired UTF-16 surrogates, which the x/text
// decoder would otherwise replace with U+FFFD. content starts with a BOM and
// has an even length.
func checkSurrogates(content []byte) error {
	order := binary.ByteOrder(binary.LittleEndian)
	if bytes.HasPrefix(content, bomBE) {
		order = binary.BigEndian
	}
	pendingHigh := -1
	for off := 2; off < len(content); off += 2 {
		unit := order.Uint16(content[off:])
		switch {
		case unit >= 0xD800 && unit <= 0xDBFF:
			if pendingHigh >= 0 {
				return fmt.Errorf("unpaired high surrogate at byte %d", pendingHigh)
			}
			pendingHigh = off
		case unit >= 0xDC00 && unit <= 0xDFFF:
			if pendingHigh < 0 {
				return fmt.Errorf("unpaired low surrogate at byte %d", off)
			}
			pendingHigh = -1
		default:
			if pendingHigh >= 0 {
				return fmt.Errorf("unpaired high surrogate at byte %d", pendingHigh)
			}
		}
	}
	if pendingHigh >= 0 {
		return fmt.Errorf("unpaired high surrogate at byte %d", pendingHigh)
	}
	return nil
}

// NormalizeHeader trims column names, removes embedded quote characters and
// brings them to NFC so that accented names match however they were encoded.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.ReplaceAll(h, `"`, "")
		h = strings.TrimSpace(h)
		out[i] = norm.NFC.String(h)
	}
	return out
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

func convertRow(fileName string, rowNum int, row CreditCSVRow) (models.Record, error) {
	invoice, err := currencyutils.ParseAmount(row.InvoiceValue)
	if err != nil {
		return models.Record{}, &parsererror.TypeConversionError{
			File: fileName, Row: rowNum, Column: ColumnInvoiceValue, Value: row.InvoiceValue, Err: err,
		}
	}

	credit, err := currencyutils.ParseAmount(row.CreditValue)
	if err != nil {
		return models.Record{}, &parsererror.TypeConversionError{
			File: fileName, Row: rowNum, Column: ColumnCreditValue, Value: row.CreditValue, Err: err,
		}
	}

	return models.Record{
		Issuer:       strings.TrimSpace(row.Issuer),
		TaxID:        strings.TrimSpace(row.TaxID),
		CreditStatus: strings.TrimSpace(row.CreditStatus),
		InvoiceValue: invoice,
		CreditValue:  credit,
		IssueDate:    strings.TrimSpace(row.IssueDate),
		Month:        dateutils.MonthKeyFromDate(row.IssueDate),
		SequenceID:   strings.TrimSpace(row.SequenceID),
		SourceFile:   fileName,
		Row:          rowNum,
	}, nil
}

// rowSource feeds already split rows to gocsv.
type rowSource struct {
	rows [][]string
	pos  int
}

func (s *rowSource) Read() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *rowSource) ReadAll() ([][]string, error) {
	rest := s.rows[s.pos:]
	s.pos = len(s.rows)
	return rest, nil
}
