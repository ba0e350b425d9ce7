package service

import (
	"context"
	"math"
	"time"

	"toolgate/internal/cache"
	"toolgate/internal/models"
	"toolgate/internal/repository"
)

type DashboardService struct {
	toolRepo    repository.ToolRepository
	requestRepo repository.RequestRepository
	reportRepo  repository.ReportRepository
}

// AdminStats is the summary shown on the admin dashboard.
type AdminStats struct {
	TotalTools        int64   `json:"total_tools"`
	PendingRequests   int64   `json:"pending_requests"`
	PendingReports    int64   `json:"pending_reports"`
	OverdueReports    int     `json:"overdue_reports"`
	ActiveUsers       int     `json:"active_users"`
	AverageCompliance float64 `json:"average_compliance"`
}

// UserStats is the summary shown on a user's dashboard.
type UserStats struct {
	TotalRequests     int64   `json:"total_requests"`
	ApprovedRequests  int64   `json:"approved_requests"`
	PendingRequests   int64   `json:"pending_requests"`
	SubmittedReports  int64   `json:"submitted_reports"`
	OverdueReports    int     `json:"overdue_reports"`
	AverageCompliance float64 `json:"average_compliance"`
}

func NewDashboardService(toolRepo repository.ToolRepository, requestRepo repository.RequestRepository, reportRepo repository.ReportRepository) *DashboardService {
	return &DashboardService{toolRepo: toolRepo, requestRepo: requestRepo, reportRepo: reportRepo}
}

// AdminStats aggregates platform-wide numbers. Overdue uses the flat
// 7-day rule; active users counts distinct requesters this month.
func (s *DashboardService) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	err := cache.CacheAside(ctx, cache.AdminStatsKey, &stats, cache.StatsTTL, func() error {
		tools, err := s.toolRepo.List(ctx)
		if err != nil {
			return err
		}
		stats.TotalTools = int64(len(tools))

		pending, err := s.requestRepo.CountByStatus(ctx, models.RequestStatusPending)
		if err != nil {
			return err
		}
		stats.PendingRequests = pending

		pendingReports, err := s.reportRepo.CountByStatus(ctx, models.ReportStatusPending)
		if err != nil {
			return err
		}
		stats.PendingReports = pendingReports

		requests, err := s.requestRepo.List(ctx)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		activeUsers := make(map[uint]struct{})
		for _, req := range requests {
			if FlatOverdue(&req, now) {
				stats.OverdueReports++
			}
			if req.CreatedAt.After(monthStart) {
				activeUsers[req.UserID] = struct{}{}
			}
		}
		stats.ActiveUsers = len(activeUsers)

		avg, err := s.reportRepo.AverageComplianceScore(ctx)
		if err != nil {
			return err
		}
		stats.AverageCompliance = math.Round(avg*10) / 10
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// UserStats aggregates one user's numbers. Overdue uses the
// duration-aware deadline rule.
func (s *DashboardService) UserStats(ctx context.Context, userID uint) (*UserStats, error) {
	var stats UserStats
	err := cache.CacheAside(ctx, cache.UserStatsKey(userID), &stats, cache.StatsTTL, func() error {
		requests, err := s.requestRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		stats.TotalRequests = int64(len(requests))

		now := time.Now().UTC()
		for _, req := range requests {
			switch req.Status {
			case models.RequestStatusApproved:
				stats.ApprovedRequests++
			case models.RequestStatusPending:
				stats.PendingRequests++
			}
			if DeadlineOverdue(&req, now) {
				stats.OverdueReports++
			}
		}

		reports, err := s.reportRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		stats.SubmittedReports = int64(len(reports))
		if len(reports) > 0 {
			total := 0
			for _, r := range reports {
				total += r.ComplianceScore
			}
			stats.AverageCompliance = math.Round(float64(total)/float64(len(reports))*10) / 10
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
