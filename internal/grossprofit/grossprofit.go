// Package grossprofit derives cost of goods sold and gross profit per
// revenue stream.
package grossprofit

import (
	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"go.uber.org/zap"
)

// Line is revenue, COGS, gross profit and margin for one stream or the total.
type Line struct {
	Revenue     model.Series
	COGS        model.Series
	GrossProfit model.Series
	MarginPct   model.Series
}

func newLine() Line {
	return Line{
		Revenue:     model.NewSeries(),
		COGS:        model.NewSeries(),
		GrossProfit: model.NewSeries(),
		MarginPct:   model.NewSeries(),
	}
}

// finish derives gross profit and margin from revenue and COGS.
func (l Line) finish() {
	for m := range l.Revenue {
		l.COGS[m] = mathutil.Round(l.COGS[m])
		l.GrossProfit[m] = mathutil.Round(l.Revenue[m] - l.COGS[m])
		l.MarginPct[m] = mathutil.Round(mathutil.CalculatePercentage(l.GrossProfit[m], l.Revenue[m]))
	}
}

// Result holds a line per stream and the total across streams.
type Result struct {
	Streams map[string]Line
	Total   Line
}

// Compute derives COGS per stream. Subscription COGS is the expensed hosting
// cost plus direct costs; every other stream uses revenue x (1 - margin/100)
// with the stream's margin for the month.
func Compute(logger *zap.Logger, streams map[string]model.Series, hostingExpensed model.Series, in model.GrossProfitData) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{
		Streams: make(map[string]Line, len(model.RevenueStreams())),
		Total:   newLine(),
	}
	directCosts := model.SeriesFromMap(in.SubscriptionDirectCosts)

	for _, name := range model.RevenueStreams() {
		line := newLine()
		revenue := streams[name]
		for m, label := range datetime.MonthAxis() {
			line.Revenue[m] = revenue.At(m)
			if name == model.StreamSubscription {
				line.COGS[m] = hostingExpensed.At(m) + directCosts[m]
			} else {
				margin := in.GrossMargins.GetOr(name, label, constants.DefaultGrossMarginPct)
				line.COGS[m] = mathutil.Complement(line.Revenue[m], margin)
			}
		}
		line.finish()
		result.Streams[name] = line

		for m := range line.Revenue {
			result.Total.Revenue[m] += line.Revenue[m]
			result.Total.COGS[m] += line.COGS[m]
		}
	}
	for m := range result.Total.Revenue {
		result.Total.Revenue[m] = mathutil.Round(result.Total.Revenue[m])
	}
	result.Total.finish()

	logger.Debug("computed gross profit",
		zap.String("op", "grossprofit.Compute"),
		zap.Float64("grossProfit", mathutil.Round(result.Total.GrossProfit.Sum())),
	)

	return result
}
