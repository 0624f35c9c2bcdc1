package hosting

import (
	"testing"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/testutil"
	"go.uber.org/zap"
)

func costStructure() map[string]map[string]model.ServiceCost {
	return map[string]map[string]model.ServiceCost{
		"Compute": {
			"API":     {Fixed: 500, Variable: 0.25},
			"Workers": {Fixed: 200, Variable: 0.5},
		},
		"Storage": {
			"Blob": {Fixed: 100, Variable: 0.25},
		},
	}
}

func constant(v float64) model.Series {
	s := model.NewSeries()
	for i := range s {
		s[i] = v
	}
	return s
}

func TestComputeLinearInSubscribers(t *testing.T) {
	in := model.HostingData{CostStructure: costStructure()}
	fixed := in.FixedTotal()
	variable := in.VariableTotal()

	for _, n := range []float64{0, 100, 10000} {
		result := Compute(zap.NewNop(), in, constant(n))
		expected := fixed + variable*n
		for m := range result.Total {
			if result.Total[m] != expected {
				t.Fatalf("N=%.0f: total[%d] = %.2f, expected %.2f", n, m, result.Total[m], expected)
			}
		}
	}

	zero := Compute(nil, in, model.NewSeries())
	testutil.AssertClose(t, "fixed only", zero.Total[0], 800)
}

func TestComputeByCategory(t *testing.T) {
	result := Compute(nil, model.HostingData{CostStructure: costStructure()}, constant(100))

	testutil.AssertClose(t, "compute", result.ByCategory["Compute"][0], 775)
	testutil.AssertClose(t, "storage", result.ByCategory["Storage"][0], 125)
	testutil.AssertClose(t, "total", result.Total[0], 900)
}

func TestComputeOverrideReplacesTotal(t *testing.T) {
	in := model.HostingData{
		CostStructure: costStructure(),
		MonthlyOverrides: map[string]float64{
			"Feb 2025": 5000,
			"Mar 2025": 0,
			"Apr 2025": -10,
		},
	}

	result := Compute(nil, in, constant(100))

	testutil.AssertClose(t, "Jan 2025", result.Total[0], 900)
	testutil.AssertClose(t, "Feb 2025", result.Total[1], 5000)
	testutil.AssertClose(t, "Mar 2025", result.Total[2], 900)
	testutil.AssertClose(t, "Apr 2025", result.Total[3], 900)
	if !result.Overridden[1] || result.Overridden[2] || result.Overridden[3] {
		t.Errorf("Overridden = %v", result.Overridden[:4])
	}
}

func TestComputeCapitalizeSplit(t *testing.T) {
	tests := []struct {
		name       string
		goLive     model.GoLiveSettings
		expectedK  int
		capitalize bool
	}{
		{name: "Capitalize before Jul 2025", goLive: model.GoLiveSettings{Month: "Jul 2025", Capitalize: true}, expectedK: 6, capitalize: true},
		{name: "Flag off expenses everything", goLive: model.GoLiveSettings{Month: "Jul 2025"}, expectedK: 6},
		{name: "Unknown month", goLive: model.GoLiveSettings{Month: "July", Capitalize: true}, expectedK: 0, capitalize: true},
		{name: "Empty month", goLive: model.GoLiveSettings{Capitalize: true}, expectedK: 0, capitalize: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := model.HostingData{CostStructure: costStructure(), GoLive: tt.goLive}
			result := Compute(nil, in, model.NewSeries())

			if result.GoLiveIndex != tt.expectedK {
				t.Fatalf("GoLiveIndex = %d, expected %d", result.GoLiveIndex, tt.expectedK)
			}
			for m := range result.Total {
				capitalized := tt.capitalize && m < tt.expectedK
				wantCap, wantExp := 0.0, result.Total[m]
				if capitalized {
					wantCap, wantExp = result.Total[m], 0
				}
				if result.Capitalized[m] != wantCap || result.Expensed[m] != wantExp {
					t.Fatalf("month %d: capitalized=%.2f expensed=%.2f", m, result.Capitalized[m], result.Expensed[m])
				}
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	result := Compute(nil, model.HostingData{}, nil)
	testutil.AssertSeries(t, "total", result.Total)
	testutil.AssertSeries(t, "expensed", result.Expensed)
}
