package models

// ProjectStats is recomputed on every request and never persisted.
// PendingAmount covers pending and in-progress projects, so the amount
// buckets overlap and do not partition TotalAmount.
type ProjectStats struct {
	TotalCount      int     `json:"totalCount"`
	PendingCount    int     `json:"pendingCount"`
	InProgressCount int     `json:"inProgressCount"`
	CompletedCount  int     `json:"completedCount"`
	CancelledCount  int     `json:"cancelledCount"`
	TotalAmount     float64 `json:"totalAmount"`
	PendingAmount   float64 `json:"pendingAmount"`
	CompletedAmount float64 `json:"completedAmount"`
	CancelledAmount float64 `json:"cancelledAmount"`
	AverageProgress int     `json:"averageProgress"`
	CompletionRate  int     `json:"completionRate"`
}

type TaskStats struct {
	TotalCount      int `json:"totalCount"`
	PendingCount    int `json:"pendingCount"`
	InProgressCount int `json:"inProgressCount"`
	CompletedCount  int `json:"completedCount"`
}

// MonthlyStats groups projects by creation month, Month is "YYYY-MM".
type MonthlyStats struct {
	Month             string  `json:"month"`
	TotalProjects     int     `json:"total_projects"`
	CompletedProjects int     `json:"completed_projects"`
	TotalAmount       float64 `json:"total_amount"`
	CompletedAmount   float64 `json:"completed_amount"`
}

type MemberSummary struct {
	Member            Account `json:"member"`
	ProjectCount      int     `json:"projectCount"`
	CompletedProjects int     `json:"completedProjects"`
	TotalAmount       float64 `json:"totalAmount"`
	AverageProgress   int     `json:"averageProgress"`
}

// MemberDetail is what a leader sees when drilling into one member.
type MemberDetail struct {
	Member    Account      `json:"member"`
	Projects  []Project    `json:"projects"`
	Tasks     []Task       `json:"tasks"`
	Stats     ProjectStats `json:"stats"`
	TaskStats TaskStats    `json:"taskStats"`
}

type LeaderDashboard struct {
	MemberCount int            `json:"memberCount"`
	Stats       ProjectStats   `json:"stats"`
	Monthly     []MonthlyStats `json:"monthly"`
}

type MemberDashboard struct {
	Stats     ProjectStats `json:"stats"`
	TaskStats TaskStats    `json:"taskStats"`
}
