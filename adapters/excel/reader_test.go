package excel

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/cohort"
	apperrors "github.com/sanjaybasu/medicaid-frailty-bias/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cohort.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_ACSExtract(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"race_eth,PWGTP,state,DIS_bin,DPHY_bin,DREM_bin,DDRS_bin,DOUT_bin,DEAR_bin,DEYE_bin,SERIALNO",
		"white,1250,GA,1,1,0,1,0,0,0,2019GQ0000049",
		"Black,890,ga,1,0,1,0,1,0,0,2019GQ0000071",
		"hispanic,,AR,0,0,0,0,0,0,0,2019HU0000012",
	}, "\n"))

	c, err := NewCohortReader(path).Read("")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(c) != 3 {
		t.Fatalf("got %d individuals, want 3", len(c))
	}

	first := c[0]
	if first.Race != cohort.RaceWhite || first.Weight != 1250 || first.State != "GA" {
		t.Errorf("first individual = %+v", first)
	}
	if !first.Ambulatory || !first.SelfCare || first.Cognitive {
		t.Errorf("first individual flags = %+v", first)
	}

	// Race and state are case-normalized.
	if c[1].Race != cohort.RaceBlack || c[1].State != "GA" {
		t.Errorf("second individual = %+v", c[1])
	}

	// Empty weight cell stays zero; EffectiveWeight handles the default.
	if c[2].Weight != 0 {
		t.Errorf("empty weight parsed as %v", c[2].Weight)
	}
	if c[2].EffectiveWeight() != 1.0 {
		t.Errorf("effective weight = %v, want 1", c[2].EffectiveWeight())
	}
}

func TestRead_FriendlyColumnNames(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"race,weight,any_disability,ambulatory",
		"black,1500,yes,true",
	}, "\n"))

	c, err := NewCohortReader(path).Read("")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(c) != 1 || !c[0].AnyDisability || !c[0].Ambulatory {
		t.Errorf("cohort = %+v", c)
	}
}

func TestRead_MissingRaceColumn(t *testing.T) {
	path := writeCSV(t, "PWGTP,DIS_bin\n100,1\n")

	_, err := NewCohortReader(path).Read("")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidCohort {
		t.Fatalf("got %v, want INVALID_COHORT", err)
	}
}

func TestRead_BadFlagReportsRow(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"race_eth,DIS_bin",
		"white,1",
		"black,maybe",
	}, "\n"))

	_, err := NewCohortReader(path).Read("")
	if err == nil {
		t.Fatal("expected an error for a non-binary indicator")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error %q does not name the offending row", err)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := NewCohortReader("/nonexistent/cohort.csv").Read("")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "race_eth,DIS_bin\n")

	_, err := NewCohortReader(path).Read("")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidCohort {
		t.Fatalf("got %v, want INVALID_COHORT", err)
	}
}
