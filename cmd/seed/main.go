// Command seed prepares a local database for development: it runs the
// migrations, activates a staff account and creates one sample story
// with a quiz and an access code, then prints a staff token for the
// admin API.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/yourusername/storyquiz-api/internal/config"
	"github.com/yourusername/storyquiz-api/internal/domain/entity"
	pgRepo "github.com/yourusername/storyquiz-api/internal/repository/postgres"
	"github.com/yourusername/storyquiz-api/internal/service"
	"github.com/yourusername/storyquiz-api/pkg/auth"
	"github.com/yourusername/storyquiz-api/pkg/database"
)

func main() {
	email := flag.String("email", "dev@localhost", "staff account to activate")
	name := flag.String("name", "Local Dev", "staff account name")
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := pgRepo.NewUserRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	storyRepo := pgRepo.NewStoryRepo(db)
	codeRepo := pgRepo.NewCodeRepo(db)
	configRepo := pgRepo.NewSystemConfigRepo(db)

	// Active staff account for the admin surface.
	if _, err := userRepo.GetByEmail(*email); err != nil {
		user := &entity.User{Email: *email, Name: *name, Status: entity.UserStatusActive}
		if err := userRepo.Create(user); err != nil {
			log.Fatalf("Failed to create staff user: %v", err)
		}
		log.Printf("Created active staff user %s", *email)
	} else {
		log.Printf("Staff user %s already exists", *email)
	}

	// Editing constraints row.
	if _, err := configRepo.Get(); err != nil {
		if err := configRepo.Save(entity.DefaultSystemConfig()); err != nil {
			log.Fatalf("Failed to seed system config: %v", err)
		}
		log.Println("Seeded system config defaults")
	}

	// One sample story with a quiz and a code, for manual testing.
	category := &entity.Category{Name: "Samples", Description: "Seeded sample content"}
	if err := categoryRepo.Create(category); err != nil {
		log.Fatalf("Failed to create sample category: %v", err)
	}

	story := &entity.Story{
		Title:       "The Boy Who Cried Wolf",
		Author:      "Aesop",
		Description: "A shepherd boy learns what repeated false alarms cost.",
		MediaURL:    "https://example.com/media/wolf.mp4",
		Subtitles:   entity.StringArray{"Once there was a shepherd boy...", "He cried: Wolf! Wolf!"},
		CategoryID:  category.ID,
		QuizItems: []entity.QuizItem{
			{
				QuizNumber:    1,
				Question:      "What did the boy shout to trick the villagers?",
				CorrectAnswer: "Wolf!",
				Choices: []entity.Choice{
					{Position: 0, Text: "Wolf!"},
					{Position: 1, Text: "Fire!"},
					{Position: 2, Text: "Help!"},
					{Position: 3, Text: "Thief!"},
				},
			},
			{
				QuizNumber:    2,
				Question:      "What happened when the wolf really came?",
				CorrectAnswer: "No one believed him",
				Choices: []entity.Choice{
					{Position: 0, Text: "No one believed him"},
					{Position: 1, Text: "The villagers chased it away"},
					{Position: 2, Text: "The wolf ran off"},
					{Position: 3, Text: "He caught it himself"},
				},
			},
		},
	}
	if err := storyRepo.Create(story); err != nil {
		log.Fatalf("Failed to create sample story: %v", err)
	}

	codeService := service.NewCodeService(codeRepo, storyRepo, nil, cfg.Codes.Length, time.Minute)
	code, err := codeService.Generate(story.ID)
	if err != nil {
		log.Fatalf("Failed to generate sample code: %v", err)
	}
	log.Printf("Sample story #%d ready, access code: %s", story.ID, code.Code)

	staffTokens, err := auth.NewStaffTokenService(cfg.Auth.StaffTokenSecret, cfg.Auth.StaffTokenExpirationHrs)
	if err != nil {
		log.Fatalf("Failed to initialize staff token service: %v", err)
	}
	token, err := staffTokens.GenerateToken(*email, *name)
	if err != nil {
		log.Fatalf("Failed to mint staff token: %v", err)
	}
	log.Printf("Staff token for %s:\n%s", *email, token)
}
