// Package revenue computes the four revenue streams from the per-stakeholder
// and per-category assumption tables.
package revenue

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds every series the revenue engine produces.
type Result struct {
	// RunningTotals is the active subscriber count per stakeholder.
	RunningTotals map[string]model.Series
	// SubscriptionByStakeholder is running total x price per stakeholder.
	SubscriptionByStakeholder map[string]model.Series
	// TransactionalByCategory is volume x price x referral fee per category.
	TransactionalByCategory map[string]model.Series
	ActiveSubscribers       model.Series
	NewCustomers            model.Series

	Subscription   model.Series
	Transactional  model.Series
	Implementation model.Series
	Maintenance    model.Series
	Total          model.Series
}

// Streams returns the stream series keyed by stream name.
func (r Result) Streams() map[string]model.Series {
	return map[string]model.Series{
		model.StreamSubscription:   r.Subscription,
		model.StreamTransactional:  r.Transactional,
		model.StreamImplementation: r.Implementation,
		model.StreamMaintenance:    r.Maintenance,
	}
}

// Stream returns one stream by name, or a zero series for an unknown name.
func (r Result) Stream(name string) model.Series {
	if s, ok := r.Streams()[name]; ok && s != nil {
		return s
	}
	return model.NewSeries()
}

// RunningTotal advances one stakeholder's subscriber count by a month:
// previous*(1-churn/100)+added, rounded to cents. Churn is not clamped.
func RunningTotal(previous, churnPct, added float64) float64 {
	return mathutil.Round(mathutil.Complement(previous, churnPct) + added)
}

// Compute runs the revenue engine. It never fails; missing inputs read as 0.
func Compute(logger *zap.Logger, in model.RevenueData) Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{
		RunningTotals:             make(map[string]model.Series),
		SubscriptionByStakeholder: make(map[string]model.Series),
		TransactionalByCategory:   make(map[string]model.Series),
		ActiveSubscribers:         model.NewSeries(),
		NewCustomers:              model.NewSeries(),
		Subscription:              model.NewSeries(),
		Transactional:             model.NewSeries(),
		Implementation:            model.NewSeries(),
		Maintenance:               model.NewSeries(),
	}

	stakeholders := model.MergeNames(in.Stakeholders,
		in.NewCustomers, in.SubscriptionPrice, in.ChurnRate,
		in.ImplementationCount, in.ImplementationFee,
		in.MaintenanceCount, in.MaintenanceFee,
	)
	for _, name := range stakeholders {
		added := in.NewCustomers.Row(name)
		churn := in.ChurnRate.Row(name)
		price := in.SubscriptionPrice.Row(name)
		implCount := in.ImplementationCount.Row(name)
		implFee := in.ImplementationFee.Row(name)
		maintCount := in.MaintenanceCount.Row(name)
		maintFee := in.MaintenanceFee.Row(name)

		running := model.NewSeries()
		subscription := model.NewSeries()
		previous := 0.0
		for m := 0; m < constants.AxisMonths; m++ {
			running[m] = RunningTotal(previous, churn[m], added[m])
			previous = running[m]
			subscription[m] = running[m] * price[m]

			result.ActiveSubscribers[m] += running[m]
			result.NewCustomers[m] += added[m]
			result.Subscription[m] += subscription[m]
			result.Implementation[m] += implCount[m] * implFee[m]
			result.Maintenance[m] += maintCount[m] * maintFee[m]
		}
		result.RunningTotals[name] = running
		result.SubscriptionByStakeholder[name] = subscription
	}

	categories := model.MergeNames(in.TransactionalCategories,
		in.TransactionalVolume, in.TransactionalPrice, in.ReferralFee,
	)
	for _, name := range categories {
		volume := in.TransactionalVolume.Row(name)
		price := in.TransactionalPrice.Row(name)
		fee := in.ReferralFee.Row(name)

		row := model.NewSeries()
		for m := 0; m < constants.AxisMonths; m++ {
			row[m] = mathutil.ApplyPercentage(volume[m]*price[m], fee[m])
			result.Transactional[m] += row[m]
		}
		result.TransactionalByCategory[name] = row
	}

	for _, s := range []model.Series{
		result.ActiveSubscribers, result.Subscription, result.Transactional,
		result.Implementation, result.Maintenance,
	} {
		for m := range s {
			s[m] = mathutil.Round(s[m])
		}
	}
	result.Total = result.Subscription.Plus(result.Transactional).Plus(result.Implementation).Plus(result.Maintenance)

	logger.Debug(fmt.Sprintf("computed revenue for %d stakeholders and %d transactional categories", len(stakeholders), len(categories)),
		zap.String("op", "revenue.Compute"),
		zap.Float64("total", mathutil.Round(result.Total.Sum())),
	)

	return result
}

// WriteBack stores the derived revenue into the document: stream totals under
// revenue.streams and per-stakeholder running totals under
// subscription_running_totals. Both are replaced wholesale.
func (r Result) WriteBack(doc *model.Document) {
	streams := make(model.Grid)
	for name, s := range r.Streams() {
		streams.SetRow(name, s)
	}
	doc.Revenue.Streams = streams

	totals := make(model.Grid, len(r.RunningTotals))
	for name, s := range r.RunningTotals {
		totals.SetRow(name, s)
	}
	doc.SubscriptionRunningTotals = totals
}
