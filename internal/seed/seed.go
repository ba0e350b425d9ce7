// Package seed provides database seeding utilities for development and
// demo environments.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"toolgate/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumRequests int
	ShouldClean bool
}

// DemoPassword is the password for every seeded account.
const DemoPassword = "password123"

// Seeder populates the database with demo data.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var catalogTools = []models.Tool{
	{Name: "nmap", Category: "network", Version: "7.95", SecurityLevel: models.SecurityLevelMedium, Environment: models.EnvironmentVirtual, Description: "Network discovery and port scanning", IsApproved: true},
	{Name: "wireshark", Category: "network", Version: "4.2.2", SecurityLevel: models.SecurityLevelLow, Environment: models.EnvironmentVirtual, Description: "Packet capture and protocol analysis", IsApproved: true},
	{Name: "burp suite", Category: "web", Version: "2024.1.1.4", SecurityLevel: models.SecurityLevelMedium, Environment: models.EnvironmentVirtual, Description: "Web application proxy and scanner", IsApproved: true},
	{Name: "metasploit", Category: "exploitation", Version: "6.4.5", SecurityLevel: models.SecurityLevelHigh, Environment: models.EnvironmentIsolated, Description: "Exploitation framework", IsApproved: true},
	{Name: "john the ripper", Category: "passwords", Version: "1.9.0", SecurityLevel: models.SecurityLevelHigh, Environment: models.EnvironmentIsolated, Description: "Password cracking", IsApproved: true},
	{Name: "nikto", Category: "web", Version: "2.5.0", SecurityLevel: models.SecurityLevelMedium, Environment: models.EnvironmentVirtual, Description: "Web server scanner"},
	{Name: "sqlmap", Category: "web", Version: "1.8.2", SecurityLevel: models.SecurityLevelHigh, Environment: models.EnvironmentIsolated, Description: "SQL injection testing"},
}

var demoPolicies = []models.Policy{
	{
		Title:       "Acceptable Use of Security Tools",
		Description: "Scope and authorization rules for all security tooling",
		Content:     "Security tools may only be used against assets explicitly in scope for an authorized engagement. All usage must be reported within seven days of approval.",
	},
	{
		Title:       "Data Handling",
		Description: "How captured data and scan output must be stored",
		Content:     "Scan output and captured traffic are confidential. Store results in the engagement tracker only and never share them with third parties.",
	},
	{
		Title:       "Environment Requirements",
		Description: "Which environments high-risk tools may run in",
		Content:     "High-risk tools run only in isolated lab environments. Approved environments are recorded with each request and deviations are a policy violation.",
	},
}

var requestPurposes = []string{
	"External perimeter scan for the quarterly audit",
	"Internal segmentation testing for the new VLAN rollout",
	"Web application assessment ahead of the launch",
	"Password strength audit for the directory migration",
	"Traffic analysis to debug the VPN handshake failures",
	"Phishing simulation infrastructure validation",
}

// Seed populates the database with demo accounts, the tool catalog,
// requests in assorted lifecycle states, reports and policies.
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding: %d users, %d requests, clean=%v", opts.NumUsers, opts.NumRequests, opts.ShouldClean)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Printf("warning: could not clear all existing data: %v", err)
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	if err := s.createCatalog(); err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}

	requests, err := s.createRequests(users, opts.NumRequests)
	if err != nil {
		return fmt.Errorf("create requests: %w", err)
	}
	log.Printf("created %d requests", len(requests))

	reports, err := s.createReports(requests)
	if err != nil {
		return fmt.Errorf("create reports: %w", err)
	}
	log.Printf("created %d reports", len(reports))

	if err := s.createPolicies(); err != nil {
		return fmt.Errorf("create policies: %w", err)
	}

	if err := s.createAlerts(users); err != nil {
		return fmt.Errorf("create alerts: %w", err)
	}

	return nil
}

// ClearAll wipes seeded tables. Order matters because of foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Alert{},
		&models.UsageReport{},
		&models.ToolRequest{},
		&models.Policy{},
		&models.Tool{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createUsers(count int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := []models.User{
		{Name: "Demo Admin", Email: "admin@toolgate.local", Password: string(hash), Role: models.RoleAdmin},
		{Name: "Demo User", Email: "user@toolgate.local", Password: string(hash), Role: models.RoleUser},
	}
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		users = append(users, models.User{
			Name:     name,
			Email:    fmt.Sprintf("%s.%d@example.com", gofakeit.Username(), i),
			Password: string(hash),
			Role:     models.RoleUser,
		})
	}

	if err := s.db.Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Seeder) createCatalog() error {
	tools := make([]models.Tool, len(catalogTools))
	copy(tools, catalogTools)
	for i := range tools {
		if tools[i].IsApproved {
			at := time.Now().UTC().AddDate(0, -1, -s.rng.Intn(28))
			tools[i].ApprovedAt = &at
		}
	}
	return s.db.Create(&tools).Error
}

func (s *Seeder) createRequests(users []models.User, count int) ([]models.ToolRequest, error) {
	durations := []models.RequestDuration{
		models.DurationOneWeek, models.DurationTwoWeeks, models.DurationOneMonth,
		models.DurationThreeMonths, models.DurationSixMonths, models.DurationPermanent,
	}

	requests := make([]models.ToolRequest, 0, count)
	for i := 0; i < count; i++ {
		user := users[s.rng.Intn(len(users))]
		tool := catalogTools[s.rng.Intn(len(catalogTools))]
		req := models.ToolRequest{
			UserID:        user.ID,
			UserName:      user.Name,
			UserEmail:     user.Email,
			ToolName:      tool.Name,
			Purpose:       requestPurposes[s.rng.Intn(len(requestPurposes))],
			Environment:   string(tool.Environment),
			Duration:      durations[s.rng.Intn(len(durations))],
			Justification: gofakeit.Sentence(12),
			CreatedAt:     time.Now().Add(-time.Duration(s.rng.Intn(45*24)) * time.Hour),
		}

		// Roughly half approved, a fifth rejected, the rest pending.
		switch s.rng.Intn(10) {
		case 0, 1, 2, 3, 4:
			approvedAt := req.CreatedAt.Add(time.Duration(s.rng.Intn(72)) * time.Hour)
			submitted := s.rng.Intn(2) == 0
			req.Status = models.RequestStatusApproved
			req.AdminResponse = "approved"
			req.ApprovedEnvironment = string(tool.Environment)
			req.SecurityInstructions = "Stay within the approved scope and environment."
			req.ReviewedBy = "Demo Admin"
			req.ReviewedDate = approvedAt.Format("2006-01-02")
			req.ApprovedAt = &approvedAt
			req.ReportSubmitted = &submitted
		case 5, 6:
			req.Status = models.RequestStatusRejected
			req.AdminResponse = "rejected"
			req.AdminComment = "Insufficient justification for the requested scope."
			req.ReviewedBy = "Demo Admin"
			req.ReviewedDate = req.CreatedAt.Add(48 * time.Hour).Format("2006-01-02")
		default:
			req.Status = models.RequestStatusPending
		}
		requests = append(requests, req)
	}

	if len(requests) == 0 {
		return requests, nil
	}
	if err := s.db.Create(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Seeder) createReports(requests []models.ToolRequest) ([]models.UsageReport, error) {
	reports := make([]models.UsageReport, 0)
	for i := range requests {
		req := &requests[i]
		if req.Status != models.RequestStatusApproved || req.ReportSubmitted == nil || !*req.ReportSubmitted {
			continue
		}

		report := models.UsageReport{
			UserID:              req.UserID,
			UserName:            req.UserName,
			UserEmail:           req.UserEmail,
			ToolName:            req.ToolName,
			DateOfUse:           req.ApprovedAt.AddDate(0, 0, 1).Format("2006-01-02"),
			SubmittedDate:       req.ApprovedAt.AddDate(0, 0, 1+s.rng.Intn(5)).Format("2006-01-02"),
			PurposeOfUse:        req.Purpose,
			LocationOfUse:       "Lab VLAN",
			StepsDescription:    gofakeit.Paragraph(1, 3, 8, " "),
			OutputsResults:      gofakeit.Sentence(15),
			AdheredToPolicy:     true,
			StayedWithinScope:   true,
			NoThirdPartySharing: s.rng.Intn(4) != 0,
			NoMaliciousUse:      true,
			ToolRequestID:       &req.ID,
		}
		report.ComplianceScore = report.ComputeComplianceScore()

		if s.rng.Intn(2) == 0 {
			report.Status = models.ReportStatusReviewed
			report.AdminResponse = models.ReportResponseApproved
			report.ReviewedBy = "Demo Admin"
			report.ReviewedDate = report.SubmittedDate
		} else {
			report.Status = models.ReportStatusPending
		}
		reports = append(reports, report)
	}

	if len(reports) == 0 {
		return reports, nil
	}
	if err := s.db.Create(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Seeder) createPolicies() error {
	policies := make([]models.Policy, len(demoPolicies))
	copy(policies, demoPolicies)
	return s.db.Create(&policies).Error
}

func (s *Seeder) createAlerts(users []models.User) error {
	alerts := []models.Alert{
		{Title: "Welcome to Toolgate", Message: "Browse the approved catalog and file a request before using any security tool.", Type: models.AlertTypeInfo},
	}
	for i := range users {
		if users[i].Role != models.RoleUser || s.rng.Intn(4) != 0 {
			continue
		}
		alerts = append(alerts, models.Alert{
			Title:   "Usage Report Overdue",
			Message: fmt.Sprintf("Your usage report for %q is overdue. Please submit it as soon as possible.", catalogTools[s.rng.Intn(len(catalogTools))].Name),
			Type:    models.AlertTypeWarning,
			UserID:  &users[i].ID,
		})
	}
	return s.db.Create(&alerts).Error
}
