package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/smartmeet/meeting-assistant-api/model"
	"github.com/smartmeet/meeting-assistant-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedDemoTeam(); err != nil {
		return fmt.Errorf("failed to seed demo team: %w", err)
	}

	if err := s.SeedDemoMeetings(); err != nil {
		return fmt.Errorf("failed to seed demo meetings: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:           adminEmail,
		Password:        hash,
		FirstName:       "System",
		LastName:        "Administrator",
		Role:            model.RoleAdmin,
		IsEmailVerified: true,
		IsActive:        true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedDemoTeam creates a sample team with a few verified members. Only
// runs when SEED_DEMO_DATA=true so production seeding stays admin-only.
func (s *Seeder) SeedDemoTeam() error {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		log.Println("⏭️  SEED_DEMO_DATA not enabled, skipping demo team...")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.Team{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Teams already exist, skipping...")
		return nil
	}

	hash, err := auth.HashPassword("demo-password-123")
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []model.User{
		{
			Email:           "alice@demo.smartmeet.local",
			Password:        hash,
			FirstName:       "Alice",
			LastName:        "Nguyen",
			Role:            model.RoleManager,
			IsEmailVerified: true,
			IsActive:        true,
		},
		{
			Email:           "bob@demo.smartmeet.local",
			Password:        hash,
			FirstName:       "Bob",
			LastName:        "Okafor",
			Role:            model.RoleMember,
			IsEmailVerified: true,
			IsActive:        true,
		},
		{
			Email:           "carol@demo.smartmeet.local",
			Password:        hash,
			FirstName:       "Carol",
			LastName:        "Marsh",
			Role:            model.RoleMember,
			IsEmailVerified: true,
			IsActive:        true,
		},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		team := &model.Team{
			Name:        "Product Engineering",
			Description: "Demo team seeded for local development",
			OwnerID:     users[0].ID,
			IsActive:    true,
		}
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		members := []model.TeamMember{
			{TeamID: team.ID, UserID: users[0].ID, Role: model.TeamRoleOwner},
			{TeamID: team.ID, UserID: users[1].ID, Role: model.TeamRoleMember},
			{TeamID: team.ID, UserID: users[2].ID, Role: model.TeamRoleMember},
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}

		log.Printf("✅ Created demo team %q with %d members\n", team.Name, len(members))
		return nil
	})
}

// SeedDemoMeetings creates sample meetings for the demo team, including
// one completed meeting with action items so the list and summary views
// have something to show.
func (s *Seeder) SeedDemoMeetings() error {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		log.Println("⏭️  SEED_DEMO_DATA not enabled, skipping demo meetings...")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.Meeting{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Meetings already exist, skipping...")
		return nil
	}

	var team model.Team
	if err := s.db.First(&team).Error; err != nil {
		log.Println("⏭️  No demo team found, skipping meeting seeding...")
		return nil
	}

	var owner model.User
	if err := s.db.First(&owner, "id = ?", team.OwnerID).Error; err != nil {
		return err
	}

	participants, err := json.Marshal([]map[string]string{
		{"email": "alice@demo.smartmeet.local", "name": "Alice Nguyen"},
		{"email": "bob@demo.smartmeet.local", "name": "Bob Okafor"},
		{"email": "carol@demo.smartmeet.local", "name": "Carol Marsh"},
	})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	completedEnd := yesterday.Add(time.Hour)

	return s.db.Transaction(func(tx *gorm.DB) error {
		retro := &model.Meeting{
			Title:            "Sprint Retrospective",
			Description:      "What went well, what did not, what we change next sprint",
			CreatedBy:        owner.ID,
			TeamID:           &team.ID,
			StartTime:        yesterday,
			EndTime:          completedEnd,
			ActualEndTime:    &completedEnd,
			Status:           model.MeetingCompleted,
			Participants:     participants,
			ParticipantCount: 3,
			Transcript:       "Alice: welcome everyone. Bob: the release went out on time. Carol: we should automate the changelog.",
			Summary:          "The team shipped the release on schedule and agreed to automate changelog generation.",
		}
		if err := tx.Create(retro).Error; err != nil {
			return err
		}

		items := []model.ActionItem{
			{
				Title:     "Automate changelog generation",
				MeetingID: retro.ID,
				CreatedBy: owner.ID,
				Status:    model.ActionItemOpen,
				Priority:  model.PriorityMedium,
				DueDate:   now.Add(7 * 24 * time.Hour),
			},
			{
				Title:     "Schedule release postmortem",
				MeetingID: retro.ID,
				CreatedBy: owner.ID,
				Status:    model.ActionItemOpen,
				Priority:  model.PriorityLow,
				DueDate:   now.Add(3 * 24 * time.Hour),
			},
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		planning := &model.Meeting{
			Title:            "Sprint Planning",
			Description:      "Scope the next sprint",
			CreatedBy:        owner.ID,
			TeamID:           &team.ID,
			StartTime:        now.Add(24 * time.Hour),
			EndTime:          now.Add(25 * time.Hour),
			Status:           model.MeetingScheduled,
			Participants:     participants,
			ParticipantCount: 3,
		}
		if err := tx.Create(planning).Error; err != nil {
			return err
		}

		log.Printf("✅ Created 2 demo meetings with %d action items\n", len(items))
		return nil
	})
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
