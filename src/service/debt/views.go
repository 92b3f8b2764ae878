// Package debt provides the derived views over an aggregated debt list.
package debt

import (
	"slices"

	"tech-debt-manager/src/model"
)

// Metrics tallies items by type. The by_type map is never nil.
func Metrics(items []model.DebtItem) model.DebtMetrics {
	metrics := model.DebtMetrics{
		TotalItems: len(items),
		ByType:     make(map[model.DebtType]int),
	}
	for _, item := range items {
		metrics.ByType[item.Type]++
	}
	return metrics
}

// Prioritize returns a copy of items sorted by descending priority rank.
// Items of equal priority keep their run order.
func Prioritize(items []model.DebtItem) []model.DebtItem {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []model.DebtItem{}
	}
	slices.SortStableFunc(sorted, func(a, b model.DebtItem) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})
	return sorted
}

// CountByPriority tallies items by priority
func CountByPriority(items []model.DebtItem) map[model.Priority]int {
	counts := make(map[model.Priority]int)
	for _, item := range items {
		counts[item.Priority]++
	}
	return counts
}
