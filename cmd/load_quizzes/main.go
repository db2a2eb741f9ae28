package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"quiz-loader/internal/catalog"
	"quiz-loader/internal/config"
	"quiz-loader/internal/database"
	"quiz-loader/internal/domain"
	"quiz-loader/internal/logger"
	"quiz-loader/internal/repository"
	"quiz-loader/internal/service"
	"quiz-loader/internal/util"
	"quiz-loader/internal/validation"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	exitOK = iota
	exitFailure
	exitConfiguration
	exitValidation
	exitPersistence
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out io.Writer) int {
	fs := config.NewFlagSet("load_quizzes")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		return exitConfiguration
	}

	cfg, err := config.LoadConfig(fs)
	if err != nil {
		// Logger is not initialized yet, so use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return exitConfiguration
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return exitConfiguration
	}
	defer logger.Sync()
	log := logger.Get().With(zap.String("run_id", util.NewULID()))

	err = load(ctx, cfg, log, out)
	if err == nil {
		return exitOK
	}
	log.Error("Quiz loading failed, no questions were stored", zap.String("code", string(domain.CodeOf(err))), zap.Error(err))
	return exitCode(err)
}

func load(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) error {
	questions, err := loadCatalog(cfg.Loader, log)
	if err != nil {
		return err
	}

	if cfg.Loader.DryRun {
		svc := service.NewQuizLoaderService(nil, nil, validation.NewValidator(), log)
		if err := svc.ValidateOnly(questions); err != nil {
			return err
		}
		fmt.Fprintf(out, "%d quiz questions are valid (dry run, nothing inserted)\n", len(questions))
		return nil
	}

	// The connection is released on every path, validation failures included.
	return database.WithConnection(ctx, cfg.Database.URL, cfg.Database.PingTimeout, log, func(ctx context.Context, db *sqlx.DB) error {
		quizRepo := repository.NewQuizQuestionDatabaseAdapter(db)
		txManager := repository.NewTransactionManagerAdapter(db, log)
		svc := service.NewQuizLoaderService(quizRepo, txManager, validation.NewValidator(), log)

		result, err := svc.LoadQuestions(ctx, questions)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%d quiz questions inserted\n", result.Inserted)
		for _, id := range sortedCourseIDs(result.PerCourse) {
			fmt.Fprintf(out, "  course %d: %d\n", id, result.PerCourse[id])
		}

		// Reruns insert duplicates; the stored totals make that visible.
		totals, err := quizRepo.CountQuestions(ctx)
		if err != nil {
			log.Warn("Could not read stored question totals", zap.Error(err))
			return nil
		}
		for _, id := range sortedCourseIDs(result.PerCourse) {
			if totals[id] > result.PerCourse[id] {
				log.Warn("Course holds more questions than this run inserted; earlier loads are not deduplicated",
					zap.Int64("course_id", id),
					zap.Int("inserted", result.PerCourse[id]),
					zap.Int("stored", totals[id]),
				)
			}
		}
		return nil
	})
}

func loadCatalog(cfg config.LoaderConfig, log *zap.Logger) ([]domain.QuizQuestion, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if cfg.CatalogPath != "" {
		log.Info("Loading quiz catalog from file", zap.String("path", cfg.CatalogPath))
		c, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		log.Info("Loading embedded quiz catalog")
		c, err = catalog.Default()
	}
	if err != nil {
		return nil, domain.NewConfigurationError("failed to load quiz catalog", err)
	}

	questions := catalog.FilterCourses(c.Questions, cfg.Courses)
	log.Info("Quiz catalog loaded",
		zap.Int("courses", len(c.Courses)),
		zap.Int("questions", len(c.Questions)),
		zap.Int("selected", len(questions)),
		zap.Int64s("course_filter", cfg.Courses),
	)
	return questions, nil
}

func exitCode(err error) int {
	switch domain.CodeOf(err) {
	case domain.ErrConfiguration:
		return exitConfiguration
	case domain.ErrValidation:
		return exitValidation
	case domain.ErrPersistence:
		return exitPersistence
	default:
		return exitFailure
	}
}

func sortedCourseIDs(m map[int64]int) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
