package services

import (
	"math"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/models"
)

// monthsKept bounds the monthly breakdown of the leader dashboard.
const monthsKept = 12

// RollupProjectStats reduces projects to counters in one pass. The result
// does not depend on input order.
func RollupProjectStats(projects []models.Project) models.ProjectStats {
	var stats models.ProjectStats
	progressSum := 0

	for _, p := range projects {
		stats.TotalCount++
		stats.TotalAmount += p.Amount
		progressSum += p.Progress

		switch p.Status {
		case models.ProjectPending:
			stats.PendingCount++
		case models.ProjectInProgress:
			stats.InProgressCount++
		case models.ProjectCompleted:
			stats.CompletedCount++
			stats.CompletedAmount += p.Amount
		case models.ProjectCancelled:
			stats.CancelledCount++
			stats.CancelledAmount += p.Amount
		}
		if p.Status.Undelivered() {
			stats.PendingAmount += p.Amount
		}
	}

	if stats.TotalCount > 0 {
		stats.AverageProgress = roundRatio(float64(progressSum), float64(stats.TotalCount))
		stats.CompletionRate = roundRatio(100*float64(stats.CompletedCount), float64(stats.TotalCount))
	}
	return stats
}

// RollupTaskStats counts tasks per status. Tasks carry no amount.
func RollupTaskStats(tasks []models.Task) models.TaskStats {
	var stats models.TaskStats
	for _, t := range tasks {
		stats.TotalCount++
		switch t.Status {
		case models.TaskPending:
			stats.PendingCount++
		case models.TaskInProgress:
			stats.InProgressCount++
		case models.TaskCompleted:
			stats.CompletedCount++
		}
	}
	return stats
}

// RollupMonthly groups projects by UTC creation month, oldest first,
// keeping the most recent twelve months.
func RollupMonthly(projects []models.Project) []models.MonthlyStats {
	byMonth := make(map[string]*models.MonthlyStats)
	for _, p := range projects {
		month := p.CreatedAt.UTC().Format("2006-01")
		m, ok := byMonth[month]
		if !ok {
			m = &models.MonthlyStats{Month: month}
			byMonth[month] = m
		}
		m.TotalProjects++
		m.TotalAmount += p.Amount
		if p.Status == models.ProjectCompleted {
			m.CompletedProjects++
			m.CompletedAmount += p.Amount
		}
	}

	monthly := make([]models.MonthlyStats, 0, len(byMonth))
	for _, m := range byMonth {
		monthly = append(monthly, *m)
	}
	sort.Slice(monthly, func(i, j int) bool { return monthly[i].Month < monthly[j].Month })

	if len(monthly) > monthsKept {
		monthly = monthly[len(monthly)-monthsKept:]
	}
	return monthly
}

// RollupMemberSummaries gives one summary per member, in member order.
// Projects of accounts outside members are ignored.
func RollupMemberSummaries(members []models.Account, projects []models.Project) []models.MemberSummary {
	byMember := make(map[primitive.ObjectID][]models.Project, len(members))
	for _, p := range projects {
		byMember[p.MemberID] = append(byMember[p.MemberID], p)
	}

	summaries := make([]models.MemberSummary, 0, len(members))
	for _, m := range members {
		stats := RollupProjectStats(byMember[m.ID])
		summaries = append(summaries, models.MemberSummary{
			Member:            m,
			ProjectCount:      stats.TotalCount,
			CompletedProjects: stats.CompletedCount,
			TotalAmount:       stats.TotalAmount,
			AverageProgress:   stats.AverageProgress,
		})
	}
	return summaries
}

func roundRatio(num, den float64) int {
	return int(math.Round(num / den))
}
