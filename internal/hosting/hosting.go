// Package hosting computes infrastructure cost from the service cost
// structure and splits it into capitalized and expensed spend.
package hosting

import (
	"fmt"
	"sort"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds every series the hosting engine produces.
type Result struct {
	Total       model.Series
	Capitalized model.Series
	Expensed    model.Series
	// ByCategory is the computed cost per cost category before overrides.
	ByCategory map[string]model.Series
	// Overridden marks months whose total came from a monthly override.
	Overridden []bool
	// GoLiveIndex is the axis position of the go-live month, 0 when unset.
	GoLiveIndex int
}

// GoLiveIndex returns the axis position of the go-live month. An empty or
// unknown month yields 0 so nothing is capitalized.
func GoLiveIndex(settings model.GoLiveSettings) int {
	if idx, ok := datetime.MonthIndex(settings.Month); ok {
		return idx
	}
	return 0
}

// MonthlyCost returns fixed + variable x subscribers summed over every service.
func MonthlyCost(services map[string]model.ServiceCost, subscribers float64) float64 {
	total := 0.0
	for _, cost := range services {
		total += cost.Fixed + cost.Variable*subscribers
	}
	return total
}

// Compute runs the hosting engine against the active subscriber counts from
// the revenue engine. A positive override replaces the month's total.
func Compute(logger *zap.Logger, in model.HostingData, activeSubscribers model.Series) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{
		Total:       model.NewSeries(),
		Capitalized: model.NewSeries(),
		Expensed:    model.NewSeries(),
		ByCategory:  make(map[string]model.Series, len(in.CostStructure)),
		Overridden:  make([]bool, constants.AxisMonths),
		GoLiveIndex: GoLiveIndex(in.GoLive),
	}

	categories := make([]string, 0, len(in.CostStructure))
	for name := range in.CostStructure {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	for _, name := range categories {
		row := model.NewSeries()
		for m := 0; m < constants.AxisMonths; m++ {
			row[m] = mathutil.Round(MonthlyCost(in.CostStructure[name], activeSubscribers.At(m)))
		}
		result.ByCategory[name] = row
	}

	overrides := model.SeriesFromMap(in.MonthlyOverrides)
	for m := 0; m < constants.AxisMonths; m++ {
		total := 0.0
		for _, name := range categories {
			total += MonthlyCost(in.CostStructure[name], activeSubscribers.At(m))
		}
		if overrides[m] > 0 {
			total = overrides[m]
			result.Overridden[m] = true
		}
		total = mathutil.Round(total)
		result.Total[m] = total

		if in.GoLive.Capitalize && m < result.GoLiveIndex {
			result.Capitalized[m] = total
		} else {
			result.Expensed[m] = total
		}
	}

	logger.Debug(fmt.Sprintf("computed hosting cost for %d categories", len(categories)),
		zap.String("op", "hosting.Compute"),
		zap.String("goLiveMonth", in.GoLive.Month),
		zap.Bool("capitalize", in.GoLive.Capitalize),
	)

	return result
}
