// Package forecast runs the engines over a model document in dependency
// order and shapes their output into report tables.
package forecast

import (
	"github.com/iwvelando/finance-dashboard/internal/grossprofit"
	"github.com/iwvelando/finance-dashboard/internal/hosting"
	"github.com/iwvelando/finance-dashboard/internal/liquidity"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/internal/payroll"
	"github.com/iwvelando/finance-dashboard/internal/revenue"
	"go.uber.org/zap"
)

// Results holds the output of every engine for one document.
type Results struct {
	Revenue     revenue.Result
	Payroll     payroll.Result
	Hosting     hosting.Result
	GrossProfit grossprofit.Result
	Liquidity   liquidity.Result
}

// Recompute runs revenue, payroll, hosting, gross profit and liquidity in that
// order and writes the derived revenue sections back into doc. Running it
// twice on an unchanged document yields the same results.
func Recompute(logger *zap.Logger, doc *model.Document) Results {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results Results
	results.Revenue = revenue.Compute(logger, doc.Revenue)
	results.Revenue.WriteBack(doc)

	results.Payroll = payroll.Compute(logger, doc.Payroll)
	results.Hosting = hosting.Compute(logger, doc.Hosting, results.Revenue.ActiveSubscribers)
	results.GrossProfit = grossprofit.Compute(logger, results.Revenue.Streams(), results.Hosting.Expensed, doc.GrossProfit)

	linked := map[model.Link]model.Series{
		model.LinkPayroll:     results.Payroll.Personnel,
		model.LinkContractors: results.Payroll.Contractors,
		model.LinkHosting:     results.Hosting.Total,
	}
	results.Liquidity = liquidity.Compute(logger, doc.Liquidity, results.Revenue.Total, linked)

	logger.Debug("recomputed model",
		zap.String("op", "forecast.Recompute"),
		zap.Float64("endingBalance", results.Liquidity.Balance.Last()),
	)

	return results
}
