package pipeline

import "sort"

// BatchStats summarizes the valid results of a batch run.
type BatchStats struct {
	Scenarios        int     `json:"scenarios"`
	GoalsMet         int     `json:"goals_met"`
	MeanFinalBalance float64 `json:"mean_final_balance"`
	TotalPotential   float64 `json:"total_potential_savings"`
	Best             string  `json:"best,omitempty"`
	BestFinalBalance float64 `json:"best_final_balance"`
	Worst            string  `json:"worst,omitempty"`
	WorstGoalGap     float64 `json:"worst_goal_gap"`
}

// Aggregate computes summary statistics over the projected (valid) results.
// Best is the highest final balance, Worst the most negative goal gap;
// ties keep the earlier result.
func Aggregate(br *BatchResult) BatchStats {
	var stats BatchStats
	if br == nil {
		return stats
	}

	var sum float64
	first := true
	for _, r := range br.Results {
		if r.Err != nil {
			continue
		}
		stats.Scenarios++
		if r.Result.GoalMet {
			stats.GoalsMet++
		}
		sum += r.Result.FinalBalance
		stats.TotalPotential += r.Result.PotentialSavings

		if first || r.Result.FinalBalance > stats.BestFinalBalance {
			stats.Best = r.Scenario.Name
			stats.BestFinalBalance = r.Result.FinalBalance
		}
		if first || r.Result.GoalGap < stats.WorstGoalGap {
			stats.Worst = r.Scenario.Name
			stats.WorstGoalGap = r.Result.GoalGap
		}
		first = false
	}

	if stats.Scenarios > 0 {
		stats.MeanFinalBalance = sum / float64(stats.Scenarios)
	}
	return stats
}

// RankByFinalBalance returns the valid results ordered by final balance,
// highest first. Equal balances keep their batch order.
func RankByFinalBalance(br *BatchResult) []ScenarioResult {
	if br == nil {
		return nil
	}
	var ranked []ScenarioResult
	for _, r := range br.Results {
		if r.Err == nil {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.FinalBalance > ranked[j].Result.FinalBalance
	})
	return ranked
}
