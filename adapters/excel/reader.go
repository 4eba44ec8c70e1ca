// Package excel loads ACS-style cohort tables from Excel and CSV files.
// Column naming follows the ACS PUMS extract convention: race_eth, PWGTP,
// state, and the *_bin disability indicators.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

// CohortReader handles reading cohort tables from Excel and CSV files
type CohortReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewCohortReader creates a reader that handles both Excel and CSV files
func NewCohortReader(filePath string) *CohortReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &CohortReader{filePath: filePath, fileType: fileType}
}

// Read loads the cohort. The first row must be a header; unrecognized
// columns are ignored so extracts with extra survey variables load as-is.
func (r *CohortReader) Read(path string) (cohort.Cohort, error) {
	if path == "" {
		path = r.filePath
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cohort file not found: %s", path))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = readCSVRows(path)
	case "xlsx":
		rows, err = readExcelRows(path)
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unsupported cohort file type: %s", r.fileType))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, apperrors.InvalidCohort("cohort file must have a header row and at least one data row")
	}

	return parseRows(rows)
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read first sheet")
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read CSV file")
	}
	return rows, nil
}

// column name candidates, checked in order
var columnAliases = map[string][]string{
	"race":               {"race_eth", "race"},
	"weight":             {"PWGTP", "pwgtp", "weight"},
	"state":              {"state", "ST"},
	"ambulatory":         {"DPHY_bin", "ambulatory"},
	"cognitive":          {"DREM_bin", "cognitive"},
	"self_care":          {"DDRS_bin", "self_care"},
	"independent_living": {"DOUT_bin", "independent_living"},
	"hearing":            {"DEAR_bin", "hearing"},
	"vision":             {"DEYE_bin", "vision"},
	"any_disability":     {"DIS_bin", "any_disability"},
}

func parseRows(rows [][]string) (cohort.Cohort, error) {
	header := rows[0]
	index := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			for i, col := range header {
				if strings.EqualFold(strings.TrimSpace(col), alias) {
					index[field] = i
					break
				}
			}
			if _, ok := index[field]; ok {
				break
			}
		}
	}
	if _, ok := index["race"]; !ok {
		return nil, apperrors.InvalidCohort("cohort file missing race_eth column")
	}
	if _, ok := index["any_disability"]; !ok {
		return nil, apperrors.InvalidCohort("cohort file missing DIS_bin column")
	}

	c := make(cohort.Cohort, 0, len(rows)-1)
	for n, row := range rows[1:] {
		ind, err := parseIndividual(row, index)
		if err != nil {
			return nil, apperrors.Wrapf(err, "cohort file row %d", n+2)
		}
		c = append(c, ind)
	}
	return c, nil
}

func parseIndividual(row []string, index map[string]int) (cohort.Individual, error) {
	cell := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	ind := cohort.Individual{
		Race: cohort.Race(strings.ToLower(cell("race"))),
	}
	if ind.Race == "" {
		return ind, apperrors.InvalidCohort("missing race value")
	}

	if s := cell("state"); s != "" {
		code, err := core.ParseStateCode(s)
		if err != nil {
			return ind, err
		}
		ind.State = code
	}

	if s := cell("weight"); s != "" {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ind, fmt.Errorf("invalid weight %q", s)
		}
		ind.Weight = w
	}

	var err error
	if ind.Ambulatory, err = parseFlag(cell("ambulatory")); err != nil {
		return ind, err
	}
	if ind.Cognitive, err = parseFlag(cell("cognitive")); err != nil {
		return ind, err
	}
	if ind.SelfCare, err = parseFlag(cell("self_care")); err != nil {
		return ind, err
	}
	if ind.IndependentLiving, err = parseFlag(cell("independent_living")); err != nil {
		return ind, err
	}
	if ind.Hearing, err = parseFlag(cell("hearing")); err != nil {
		return ind, err
	}
	if ind.Vision, err = parseFlag(cell("vision")); err != nil {
		return ind, err
	}
	if ind.AnyDisability, err = parseFlag(cell("any_disability")); err != nil {
		return ind, err
	}
	return ind, nil
}

// parseFlag accepts the 0/1 encoding of ACS binary indicators plus common
// boolean spellings. Empty cells mean false.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	default:
		return false, fmt.Errorf("invalid binary indicator %q", s)
	}
}
