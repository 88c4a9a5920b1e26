package creditparser

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// StandardHeader is the column order of a typical export, including a column
// the parser does not use.
var StandardHeader = []string{
	"No.", "Emitente", "CNPJ emit.", "Data Emissão", "Valor NF", "Créditos", "Situação do Crédito", "Chave",
}

// EncodeExport builds an export the way the tax portal writes it: every field
// quoted, tab-delimited, CRLF line endings, UTF-16LE with a byte-order mark.
// It backs the package tests and the fixtures of dependent packages.
func EncodeExport(header []string, rows [][]string) []byte {
	var b strings.Builder
	writeLine := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteString("\r\n")
	}

	writeLine(header)
	for _, row := range rows {
		writeLine(row)
	}

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(b.String())
	if err != nil {
		// Every Go string is encodable as UTF-16.
		panic(err)
	}
	return []byte(encoded)
}

// StandardRow lays out the fields of a record in StandardHeader order.
func StandardRow(seq, issuer, taxID, date, invoice, credit, status string) []string {
	return []string{seq, issuer, taxID, date, invoice, credit, status, ""}
}
