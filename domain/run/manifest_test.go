package run

import (
	"testing"

	"github.com/sanjaybasu/medicaid-frailty-bias/domain/core"
)

func TestNewManifest(t *testing.T) {
	detect := map[string]float64{"white": 0.72, "black": 0.58}
	cert := map[string]float64{"white": 0.81, "black": 0.64}

	m := NewManifest(42, 500, 3000, []core.StateCode{"GA", "AR"}, detect, cert, "abc", 1000, "0.3.0")

	if m.RunID.String() == "" {
		t.Error("manifest without a run ID")
	}
	if m.ParameterHash.IsEmpty() {
		t.Error("manifest without a parameter hash")
	}
	if m.CreatedAt.IsZero() {
		t.Error("manifest without a timestamp")
	}
	if m.Seed != 42 || m.NSim != 500 || m.SamplePerRace != 3000 || m.CohortSize != 1000 {
		t.Errorf("manifest = %+v", m)
	}
}

func TestNewManifest_ParameterHashStability(t *testing.T) {
	detect := map[string]float64{"white": 0.72, "black": 0.58}
	cert := map[string]float64{"white": 0.81}

	a := NewManifest(1, 1, 1, nil, detect, cert, "h", 1, "v")
	b := NewManifest(1, 1, 1, nil, detect, cert, "h", 1, "v")

	if a.RunID == b.RunID {
		t.Error("two manifests share a run ID")
	}
	if a.ParameterHash != b.ParameterHash {
		t.Error("identical tables produced different parameter hashes")
	}

	shifted := map[string]float64{"white": 0.73, "black": 0.58}
	c := NewManifest(1, 1, 1, nil, shifted, cert, "h", 1, "v")
	if c.ParameterHash == a.ParameterHash {
		t.Error("different tables produced the same parameter hash")
	}
}
