package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/app"
	"github.com/yungbote/majoradvisor-backend/internal/data/db"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

var migrateSeedFile string

// migrateCmd runs schema migration and the idempotent seeds.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the schema and seed questions and the major catalog",
	Long: `Create or update tables, ensure the AI settings row exists and seed
survey questions, majors and universities. Questions already present (same
text), majors with an existing name and universities with an existing name
are skipped; university/major links are added when missing.

A --seed file may carry questions:, majors: and universities: sections.
Without --seed the built-in questions and majors are used.`,
	RunE: runMigrate,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := services.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hashed)
		return nil
	},
}

var (
	newUserEmail        string
	newUserPassword     string
	newUserName         string
	newUserRole         string
	newUserUniversityID string
	newUserTeacherID    string
)

// createUserCmd bootstraps accounts; there is no public registration route.
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account",
	Example: `  majoradvisor create-user --email admin@uni.edu --password s3cret --role admin
  majoradvisor create-user --email s@uni.edu --password pw --role student --teacher-id <uuid>`,
	RunE: runCreateUser,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateSeedFile, "seed", "", "YAML file with questions, majors and universities (default: built-in set)")

	createUserCmd.Flags().StringVar(&newUserEmail, "email", "", "Login email (required)")
	createUserCmd.Flags().StringVar(&newUserPassword, "password", "", "Plain-text password (required)")
	createUserCmd.Flags().StringVar(&newUserName, "name", "", "Full name")
	createUserCmd.Flags().StringVar(&newUserRole, "role", "student", "One of admin, teacher, student")
	createUserCmd.Flags().StringVar(&newUserUniversityID, "university-id", "", "University UUID")
	createUserCmd.Flags().StringVar(&newUserTeacherID, "teacher-id", "", "Supervising teacher UUID (students only)")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	svc, err := db.NewService(cfg.DB, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := commandContext(cmd)
	defer stop()

	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureAISettingsRow(ctx, svc.DB()); err != nil {
		return fmt.Errorf("ensure ai settings: %w", err)
	}

	questions, catalogRaw := db.DefaultQuestions(), db.DefaultCatalog()
	if migrateSeedFile != "" {
		raw, err := os.ReadFile(migrateSeedFile)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		questions, catalogRaw = raw, raw
	}
	n, err := db.SeedQuestions(ctx, svc.DB(), questions)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	seeded, err := seedCatalog(ctx, svc.DB(), log, catalogRaw)
	if err != nil {
		return err
	}
	log.Info("Migration complete",
		"questions_inserted", n,
		"majors_inserted", seeded.MajorsInserted,
		"universities_inserted", seeded.UniversitiesInserted,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "migrated; %d question(s), %d major(s), %d university(ies) inserted\n",
		n, seeded.MajorsInserted, seeded.UniversitiesInserted)
	return nil
}

func seedCatalog(ctx context.Context, theDB *gorm.DB, log *logger.Logger, raw []byte) (services.CatalogSeedResult, error) {
	seed, err := services.ParseCatalogSeed(raw)
	if err != nil {
		return services.CatalogSeedResult{}, err
	}
	catalog := services.NewCatalogService(
		theDB,
		log,
		repos.NewMajorRepo(theDB, log),
		repos.NewUniversityRepo(theDB, log),
	)
	res, err := catalog.Seed(ctx, seed)
	if err != nil {
		return services.CatalogSeedResult{}, fmt.Errorf("seed catalog: %w", err)
	}
	return res, nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	universityID, err := optionalUUID("university-id", newUserUniversityID)
	if err != nil {
		return err
	}
	teacherID, err := optionalUUID("teacher-id", newUserTeacherID)
	if err != nil {
		return err
	}

	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	svc, err := app.OpenDatabase(log, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, stop := commandContext(cmd)
	defer stop()

	theDB := svc.DB()
	authService := services.NewAuthService(
		theDB,
		log,
		repos.NewUserRepo(theDB, log),
		repos.NewStudentRepo(theDB, log),
		cfg.JWTSecret,
		cfg.TokenTTL,
	)
	user, err := authService.CreateUser(ctx, services.CreateUserInput{
		Email:        newUserEmail,
		Password:     newUserPassword,
		FullName:     newUserName,
		Role:         newUserRole,
		UniversityID: universityID,
		TeacherID:    teacherID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func optionalUUID(flag, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &id, nil
}
