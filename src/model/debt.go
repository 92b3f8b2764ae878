package model

import "time"

// DebtType identifies the kind of technical debt an item represents
type DebtType string

const (
	TypeMissingTest         DebtType = "MissingTest"
	TypeDuplicateCode       DebtType = "DuplicateCode"
	TypeStaticAnalysisIssue DebtType = "StaticAnalysisIssue"
)

// DebtTypes lists every debt type in detector run order
var DebtTypes = []DebtType{TypeMissingTest, TypeDuplicateCode, TypeStaticAnalysisIssue}

// Priority represents how urgently a debt item should be addressed
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank returns the sort weight of a priority. Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// PriorityFor returns the fixed priority of a debt type
func PriorityFor(t DebtType) Priority {
	switch t {
	case TypeMissingTest, TypeStaticAnalysisIssue:
		return PriorityHigh
	case TypeDuplicateCode:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// DebtItem is a single technical debt finding.
// Build items with NewDebtItem so Priority always matches Type.
type DebtItem struct {
	File     string   `json:"file"`
	Type     DebtType `json:"type"`
	Priority Priority `json:"priority"`
}

// NewDebtItem creates a debt item for a repo-relative file path
func NewDebtItem(file string, t DebtType) DebtItem {
	return DebtItem{
		File:     file,
		Type:     t,
		Priority: PriorityFor(t),
	}
}

// DebtMetrics summarizes a list of debt items
type DebtMetrics struct {
	TotalItems int              `json:"total_items"`
	ByType     map[DebtType]int `json:"by_type"`
}

// AnalysisReport represents the complete output of one aggregation
type AnalysisReport struct {
	Project     string      `json:"project"`
	GeneratedAt time.Time   `json:"generated_at"`
	Prioritized bool        `json:"prioritized"`
	Metrics     DebtMetrics `json:"metrics"`
	Items       []DebtItem  `json:"items"`
}
