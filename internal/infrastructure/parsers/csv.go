package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// CSVParser parses findings from a CSV report.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed findings.
// Expected columns: type, description, slides_involved, confidence, severity, details
func (p *CSVParser) Parse(r io.Reader) ([]entities.Inconsistency, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	requiredCols := []string{"type", "slides_involved", "confidence"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to findings.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.Inconsistency, error) {
	findings := []entities.Inconsistency{}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		finding, err := p.parseRecord(record, colIndex, line)
		if err != nil {
			return nil, err
		}
		findings = append(findings, finding)
	}

	return findings, nil
}

// parseRecord converts a CSV record to a finding.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (entities.Inconsistency, error) {
	finding := entities.Inconsistency{
		Type:        entities.InconsistencyType(getColumn(record, colIndex, "type")),
		Description: getColumn(record, colIndex, "description"),
		Severity:    entities.Severity(getColumn(record, colIndex, "severity")),
		Details:     getColumn(record, colIndex, "details"),
	}
	if finding.Type == "" {
		return entities.Inconsistency{}, fmt.Errorf("line %d: missing type", lineNum)
	}

	slides, err := parseSlides(getColumn(record, colIndex, "slides_involved"))
	if err != nil {
		return entities.Inconsistency{}, fmt.Errorf("line %d: %w", lineNum, err)
	}
	finding.SlidesInvolved = slides

	confStr := getColumn(record, colIndex, "confidence")
	conf, err := strconv.ParseFloat(confStr, 64)
	if err != nil {
		return entities.Inconsistency{}, fmt.Errorf("line %d: invalid confidence value %q: %w", lineNum, confStr, err)
	}
	finding.Confidence = conf

	return finding, nil
}

// parseSlides splits a ";"-delimited slide list.
func parseSlides(cell string) ([]int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return []int{}, nil
	}
	parts := strings.Split(cell, ";")
	slides := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid slide number %q in %q", part, cell)
		}
		slides = append(slides, n)
	}
	return slides, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
