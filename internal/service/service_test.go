package service

import (
	"context"
	"testing"
	"time"

	"toolgate/internal/database"
	"toolgate/internal/models"
	"toolgate/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    string(role) + "-" + t.Name() + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func submitTestRequest(t *testing.T, svc *RequestService, user *models.User, duration models.RequestDuration) *models.ToolRequest {
	t.Helper()
	req, err := svc.Submit(context.Background(), SubmitRequestInput{
		UserID:        user.ID,
		UserName:      user.Name,
		UserEmail:     user.Email,
		ToolName:      "nmap",
		Purpose:       "network discovery for the quarterly audit",
		Environment:   "virtual",
		Duration:      duration,
		Justification: "required for the scheduled internal assessment",
	})
	if err != nil {
		t.Fatalf("failed to submit request: %v", err)
	}
	return req
}

func TestRequestSubmitValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)

	_, err := svc.Submit(context.Background(), SubmitRequestInput{
		UserID:   user.ID,
		ToolName: "",
	})
	if err == nil {
		t.Fatal("expected validation error for missing tool name")
	}

	_, err = svc.Submit(context.Background(), SubmitRequestInput{
		UserID:        user.ID,
		ToolName:      "nmap",
		Purpose:       "scanning",
		Environment:   "virtual",
		Duration:      "forever",
		Justification: "audit",
	})
	if err == nil {
		t.Fatal("expected validation error for invalid duration")
	}
}

func TestRequestDecisionApprove(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)
	req := submitTestRequest(t, svc, user, models.DurationOneWeek)

	decided, err := svc.Decide(context.Background(), DecideRequestInput{
		RequestID:            req.ID,
		ReviewedBy:           "Admin",
		Response:             models.RequestStatusApproved,
		ApprovedEnvironment:  "virtual",
		SecurityInstructions: "run inside the isolated lab segment only",
	})
	if err != nil {
		t.Fatalf("failed to approve request: %v", err)
	}
	if decided.Status != models.RequestStatusApproved {
		t.Errorf("expected status approved, got %s", decided.Status)
	}
	if decided.ApprovedAt == nil {
		t.Error("expected ApprovedAt to be stamped")
	}
	if decided.ReportSubmitted == nil || *decided.ReportSubmitted {
		t.Error("expected ReportSubmitted to be initialized to false")
	}
	if decided.ReviewedBy != "Admin" {
		t.Errorf("expected ReviewedBy Admin, got %q", decided.ReviewedBy)
	}
}

func TestRequestDecisionApproveRequiresEnvironment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)
	req := submitTestRequest(t, svc, user, models.DurationOneWeek)

	_, err := svc.Decide(context.Background(), DecideRequestInput{
		RequestID:  req.ID,
		ReviewedBy: "Admin",
		Response:   models.RequestStatusApproved,
	})
	if err == nil {
		t.Fatal("expected validation error for missing approved environment")
	}
}

func TestRequestDecisionRejectCommentLength(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)

	req := submitTestRequest(t, svc, user, models.DurationOneWeek)
	_, err := svc.Decide(context.Background(), DecideRequestInput{
		RequestID:    req.ID,
		ReviewedBy:   "Admin",
		Response:     models.RequestStatusRejected,
		AdminComment: " a b ",
	})
	if err == nil {
		t.Fatal("expected short rejection comment to be rejected")
	}

	decided, err := svc.Decide(context.Background(), DecideRequestInput{
		RequestID:    req.ID,
		ReviewedBy:   "Admin",
		Response:     models.RequestStatusRejected,
		AdminComment: "scope not justified",
	})
	if err != nil {
		t.Fatalf("failed to reject request: %v", err)
	}
	if decided.Status != models.RequestStatusRejected {
		t.Errorf("expected status rejected, got %s", decided.Status)
	}
}

func TestRequestDecisionIsFinal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRequestService(repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)
	req := submitTestRequest(t, svc, user, models.DurationOneWeek)

	if _, err := svc.Decide(context.Background(), DecideRequestInput{
		RequestID:           req.ID,
		ReviewedBy:          "Admin",
		Response:            models.RequestStatusApproved,
		ApprovedEnvironment: "virtual",
	}); err != nil {
		t.Fatalf("failed to approve request: %v", err)
	}

	_, err := svc.Decide(context.Background(), DecideRequestInput{
		RequestID:    req.ID,
		ReviewedBy:   "Admin",
		Response:     models.RequestStatusRejected,
		AdminComment: "changed my mind",
	})
	if err == nil {
		t.Fatal("expected second decision on the same request to fail")
	}
}

func TestOverdueRules(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	eightDaysAgo := now.Add(-8 * 24 * time.Hour)
	submitted := false

	req := &models.ToolRequest{
		Status:          models.RequestStatusApproved,
		ApprovedAt:      &eightDaysAgo,
		Duration:        models.DurationOneWeek,
		ReportSubmitted: &submitted,
	}

	if !FlatOverdue(req, now) {
		t.Error("expected 8-day-old approval to be flat overdue")
	}
	if !DeadlineOverdue(req, now) {
		t.Error("expected 8-day-old 1-week request to be deadline overdue")
	}

	// A submitted report clears the user-facing deadline rule but not
	// the admin sweep, which flags every aged approval.
	done := true
	req.ReportSubmitted = &done
	if !FlatOverdue(req, now) {
		t.Error("expected 8-day-old approval to stay flat overdue after report submission")
	}
	if DeadlineOverdue(req, now) {
		t.Error("expected request with submitted report to not be deadline overdue")
	}

	// A 1-month request 8 days in is flat overdue for admins but not
	// past its own deadline yet.
	req.ReportSubmitted = &submitted
	req.Duration = models.DurationOneMonth
	if !FlatOverdue(req, now) {
		t.Error("expected 1-month request to be flat overdue after 8 days")
	}
	if DeadlineOverdue(req, now) {
		t.Error("expected 1-month request to not be deadline overdue after 8 days")
	}

	// Pending requests are never overdue.
	pending := &models.ToolRequest{Status: models.RequestStatusPending}
	if FlatOverdue(pending, now) || DeadlineOverdue(pending, now) {
		t.Error("expected pending request to never be overdue")
	}
}

func TestReportSubmitComplianceScore(t *testing.T) {
	db := setupTestDB(t)
	requestRepo := repository.NewRequestRepository(db)
	svc := NewReportService(repository.NewReportRepository(db), requestRepo)
	user := createTestUser(t, db, models.RoleUser)

	report, err := svc.Submit(context.Background(), SubmitReportInput{
		UserID:            user.ID,
		UserName:          user.Name,
		UserEmail:         user.Email,
		ToolName:          "nmap",
		DateOfUse:         "2026-03-10",
		PurposeOfUse:      "network discovery",
		LocationOfUse:     "lab segment",
		StepsDescription:  "ran a scoped TCP scan",
		OutputsResults:    "host inventory exported",
		AdheredToPolicy:   true,
		StayedWithinScope: true,
		NoMaliciousUse:    true,
	})
	if err != nil {
		t.Fatalf("failed to submit report: %v", err)
	}
	if report.ComplianceScore != 75 {
		t.Errorf("expected compliance score 75 for three attestations, got %d", report.ComplianceScore)
	}
	if report.Status != models.ReportStatusPending {
		t.Errorf("expected new report to be pending, got %s", report.Status)
	}
}

func TestReportSubmitRequiresAttestation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(repository.NewReportRepository(db), repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)

	_, err := svc.Submit(context.Background(), SubmitReportInput{
		UserID:           user.ID,
		UserName:         user.Name,
		UserEmail:        user.Email,
		ToolName:         "nmap",
		DateOfUse:        "2026-03-10",
		PurposeOfUse:     "network discovery",
		LocationOfUse:    "lab segment",
		StepsDescription: "ran a scoped TCP scan",
		OutputsResults:   "host inventory exported",
	})
	if err == nil {
		t.Fatal("expected report with zero attestations to be rejected")
	}
}

func TestReportSubmitFlipsRequestFlag(t *testing.T) {
	db := setupTestDB(t)
	requestRepo := repository.NewRequestRepository(db)
	requestSvc := NewRequestService(requestRepo)
	reportSvc := NewReportService(repository.NewReportRepository(db), requestRepo)
	user := createTestUser(t, db, models.RoleUser)

	req := submitTestRequest(t, requestSvc, user, models.DurationOneWeek)
	if _, err := requestSvc.Decide(context.Background(), DecideRequestInput{
		RequestID:           req.ID,
		ReviewedBy:          "Admin",
		Response:            models.RequestStatusApproved,
		ApprovedEnvironment: "virtual",
	}); err != nil {
		t.Fatalf("failed to approve request: %v", err)
	}

	if _, err := reportSvc.Submit(context.Background(), SubmitReportInput{
		UserID:              user.ID,
		UserName:            user.Name,
		UserEmail:           user.Email,
		ToolName:            "nmap",
		DateOfUse:           "2026-03-10",
		PurposeOfUse:        "network discovery",
		LocationOfUse:       "lab segment",
		StepsDescription:    "ran a scoped TCP scan",
		OutputsResults:      "host inventory exported",
		AdheredToPolicy:     true,
		StayedWithinScope:   true,
		NoThirdPartySharing: true,
		NoMaliciousUse:      true,
		ToolRequestID:       &req.ID,
	}); err != nil {
		t.Fatalf("failed to submit report: %v", err)
	}

	updated, err := requestRepo.GetByID(context.Background(), req.ID)
	if err != nil {
		t.Fatalf("failed to reload request: %v", err)
	}
	if updated.ReportSubmitted == nil || !*updated.ReportSubmitted {
		t.Error("expected request ReportSubmitted flag to be true after linked report")
	}
}

func TestReportReviewStatusMapping(t *testing.T) {
	cases := []struct {
		response string
		want     models.ReportStatus
	}{
		{models.ReportResponseApproved, models.ReportStatusReviewed},
		{models.ReportResponseApprovedWithNotes, models.ReportStatusReviewed},
		{models.ReportResponseRequiresClarification, models.ReportStatusFlagged},
		{models.ReportResponseNonCompliant, models.ReportStatusFlagged},
		{models.ReportResponsePolicyViolation, models.ReportStatusFlagged},
	}

	for _, tc := range cases {
		t.Run(tc.response, func(t *testing.T) {
			db := setupTestDB(t)
			svc := NewReportService(repository.NewReportRepository(db), repository.NewRequestRepository(db))
			user := createTestUser(t, db, models.RoleUser)

			report, err := svc.Submit(context.Background(), SubmitReportInput{
				UserID:           user.ID,
				UserName:         user.Name,
				UserEmail:        user.Email,
				ToolName:         "nmap",
				DateOfUse:        "2026-03-10",
				PurposeOfUse:     "network discovery",
				LocationOfUse:    "lab segment",
				StepsDescription: "ran a scoped TCP scan",
				OutputsResults:   "host inventory exported",
				AdheredToPolicy:  true,
			})
			if err != nil {
				t.Fatalf("failed to submit report: %v", err)
			}

			reviewed, err := svc.Review(context.Background(), ReviewReportInput{
				ReportID:   report.ID,
				ReviewedBy: "Admin",
				Response:   tc.response,
			})
			if err != nil {
				t.Fatalf("failed to review report: %v", err)
			}
			if reviewed.Status != tc.want {
				t.Errorf("response %q: expected status %s, got %s", tc.response, tc.want, reviewed.Status)
			}
		})
	}
}

func TestReportReviewIsFinal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReportService(repository.NewReportRepository(db), repository.NewRequestRepository(db))
	user := createTestUser(t, db, models.RoleUser)

	report, err := svc.Submit(context.Background(), SubmitReportInput{
		UserID:           user.ID,
		UserName:         user.Name,
		UserEmail:        user.Email,
		ToolName:         "nmap",
		DateOfUse:        "2026-03-10",
		PurposeOfUse:     "network discovery",
		LocationOfUse:    "lab segment",
		StepsDescription: "ran a scoped TCP scan",
		OutputsResults:   "host inventory exported",
		AdheredToPolicy:  true,
	})
	if err != nil {
		t.Fatalf("failed to submit report: %v", err)
	}

	if _, err := svc.Review(context.Background(), ReviewReportInput{
		ReportID:   report.ID,
		ReviewedBy: "Admin",
		Response:   models.ReportResponseApproved,
	}); err != nil {
		t.Fatalf("failed to review report: %v", err)
	}

	if _, err := svc.Review(context.Background(), ReviewReportInput{
		ReportID:   report.ID,
		ReviewedBy: "Admin",
		Response:   models.ReportResponsePolicyViolation,
	}); err == nil {
		t.Fatal("expected second review to fail")
	}
}

func TestAlertOverdueReminder(t *testing.T) {
	db := setupTestDB(t)
	requestRepo := repository.NewRequestRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	requestSvc := NewRequestService(requestRepo)
	alertSvc := NewAlertService(alertRepo, requestRepo)
	user := createTestUser(t, db, models.RoleUser)

	req := submitTestRequest(t, requestSvc, user, models.DurationOneWeek)
	if _, err := requestSvc.Decide(context.Background(), DecideRequestInput{
		RequestID:           req.ID,
		ReviewedBy:          "Admin",
		Response:            models.RequestStatusApproved,
		ApprovedEnvironment: "virtual",
	}); err != nil {
		t.Fatalf("failed to approve request: %v", err)
	}

	if err := alertSvc.SendOverdueReminder(context.Background(), req.ID); err != nil {
		t.Fatalf("failed to send reminder: %v", err)
	}

	alerts, err := alertSvc.ListForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to list alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected user alert plus broadcast, got %d alerts", len(alerts))
	}

	// Second reminder for the same request is refused.
	if err := alertSvc.SendOverdueReminder(context.Background(), req.ID); err == nil {
		t.Fatal("expected duplicate reminder to fail")
	}
}

func TestDashboardUserStats(t *testing.T) {
	db := setupTestDB(t)
	requestRepo := repository.NewRequestRepository(db)
	reportRepo := repository.NewReportRepository(db)
	requestSvc := NewRequestService(requestRepo)
	reportSvc := NewReportService(reportRepo, requestRepo)
	dashSvc := NewDashboardService(repository.NewToolRepository(db), requestRepo, reportRepo)
	user := createTestUser(t, db, models.RoleUser)

	req := submitTestRequest(t, requestSvc, user, models.DurationOneWeek)
	if _, err := requestSvc.Decide(context.Background(), DecideRequestInput{
		RequestID:           req.ID,
		ReviewedBy:          "Admin",
		Response:            models.RequestStatusApproved,
		ApprovedEnvironment: "virtual",
	}); err != nil {
		t.Fatalf("failed to approve request: %v", err)
	}
	submitTestRequest(t, requestSvc, user, models.DurationOneMonth)

	if _, err := reportSvc.Submit(context.Background(), SubmitReportInput{
		UserID:           user.ID,
		UserName:         user.Name,
		UserEmail:        user.Email,
		ToolName:         "nmap",
		DateOfUse:        "2026-03-10",
		PurposeOfUse:     "network discovery",
		LocationOfUse:    "lab segment",
		StepsDescription: "ran a scoped TCP scan",
		OutputsResults:   "host inventory exported",
		AdheredToPolicy:  true,
		NoMaliciousUse:   true,
	}); err != nil {
		t.Fatalf("failed to submit report: %v", err)
	}

	stats, err := dashSvc.UserStats(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to load user stats: %v", err)
	}
	if stats.TotalRequests != 2 {
		t.Errorf("expected 2 total requests, got %d", stats.TotalRequests)
	}
	if stats.ApprovedRequests != 1 {
		t.Errorf("expected 1 approved request, got %d", stats.ApprovedRequests)
	}
	if stats.PendingRequests != 1 {
		t.Errorf("expected 1 pending request, got %d", stats.PendingRequests)
	}
	if stats.SubmittedReports != 1 {
		t.Errorf("expected 1 submitted report, got %d", stats.SubmittedReports)
	}
	if stats.AverageCompliance != 50 {
		t.Errorf("expected average compliance 50, got %v", stats.AverageCompliance)
	}
}
