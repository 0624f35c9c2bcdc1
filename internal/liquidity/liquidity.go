// Package liquidity aggregates inflows and outflows into monthly net cash
// flow and a running balance.
package liquidity

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds every series the liquidity engine produces.
type Result struct {
	Revenue       model.Series
	OtherReceipts model.Series
	Investment    model.Series
	Inflow        model.Series
	Outflow       model.Series
	Net           model.Series
	Balance       model.Series

	// Order is the category order the outflow rows follow.
	Order      []string
	ByCategory map[string]model.Series

	MinBalance      float64
	MinBalanceMonth string
	// RunwayMonth is the first month with a negative balance, empty if none.
	RunwayMonth string
	// SensitivityIndex is the first adjusted month, -1 when no adjustment applies.
	SensitivityIndex int
}

// SensitivityIndex returns the axis position adjustments start from, or -1
// when the overlay is disabled or its month is not on the axis.
func SensitivityIndex(s model.Sensitivity) int {
	if !s.Enabled {
		return -1
	}
	if idx, ok := datetime.MonthIndex(s.EffectiveMonth); ok {
		return idx
	}
	return -1
}

// Compute runs the cash-flow pass. revenue is the total revenue series and
// linked maps a category link to the engine series it reads instead of
// entered values.
func Compute(logger *zap.Logger, in model.LiquidityData, revenue model.Series, linked map[model.Link]model.Series) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{
		Revenue:          model.NewSeries(),
		OtherReceipts:    model.SeriesFromMap(in.OtherReceipts),
		Investment:       model.SeriesFromMap(in.Investment),
		Inflow:           model.NewSeries(),
		Outflow:          model.NewSeries(),
		Net:              model.NewSeries(),
		Balance:          model.NewSeries(),
		Order:            append([]string(nil), in.CategoryOrder...),
		ByCategory:       make(map[string]model.Series, len(in.CategoryOrder)),
		SensitivityIndex: SensitivityIndex(in.Sensitivity),
	}
	copy(result.Revenue, revenue)

	for _, name := range result.Order {
		row := in.Expenses.Row(name)
		if c, ok := in.Category(name); ok && c.Link != model.LinkNone {
			if series, ok := linked[c.Link]; ok {
				row = model.NewSeries()
				copy(row, series)
			} else if c.Link.Known() {
				row = model.NewSeries()
			}
		}
		result.ByCategory[name] = row
	}

	if k := result.SensitivityIndex; k >= 0 {
		for m := k; m < constants.AxisMonths; m++ {
			result.Revenue[m] = mathutil.AdjustByPercentage(result.Revenue[m], in.Sensitivity.InflowPct)
			result.OtherReceipts[m] = mathutil.AdjustByPercentage(result.OtherReceipts[m], in.Sensitivity.InflowPct)
			result.Investment[m] = mathutil.AdjustByPercentage(result.Investment[m], in.Sensitivity.InflowPct)
			for _, row := range result.ByCategory {
				row[m] = mathutil.AdjustByPercentage(row[m], in.Sensitivity.OutflowPct)
			}
		}
	}

	// Every balance is a rounded sum of rounded nets, so the start is rounded
	// too.
	balance := mathutil.Round(in.StartingBalance)
	result.MinBalance = balance
	for m := 0; m < constants.AxisMonths; m++ {
		inflow := result.Revenue[m] + result.OtherReceipts[m] + result.Investment[m]
		outflow := 0.0
		for _, name := range result.Order {
			outflow += result.ByCategory[name][m]
		}
		result.Inflow[m] = mathutil.Round(inflow)
		result.Outflow[m] = mathutil.Round(outflow)
		result.Net[m] = mathutil.Round(result.Inflow[m] - result.Outflow[m])

		balance = mathutil.Round(balance + result.Net[m])
		result.Balance[m] = balance

		label, _ := datetime.MonthLabel(m)
		if m == 0 || balance < result.MinBalance {
			result.MinBalance = balance
			result.MinBalanceMonth = label
		}
		if balance < 0 && result.RunwayMonth == "" {
			result.RunwayMonth = label
		}
	}

	logger.Debug(fmt.Sprintf("computed cash flow over %d expense categories", len(result.Order)),
		zap.String("op", "liquidity.Compute"),
		zap.Float64("endingBalance", result.Balance.Last()),
		zap.String("runwayMonth", result.RunwayMonth),
	)

	return result
}
