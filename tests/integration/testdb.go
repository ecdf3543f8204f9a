// Package integration runs full-stack flow tests against a real
// database. An in-memory sqlite instance stands in for PostgreSQL so
// the suite has no external dependencies.
package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	budgetapp "github.com/budgeterp/backend/internal/application/budget"
	docapp "github.com/budgeterp/backend/internal/application/document"
	"github.com/budgeterp/backend/internal/application/recommend"
	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/budgeterp/backend/internal/infrastructure/cache"
	"github.com/budgeterp/backend/internal/infrastructure/event"
	"github.com/budgeterp/backend/internal/infrastructure/persistence"
)

// NewTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own named instance so tests stay isolated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared-cache instance alive for
	// the test's lifetime.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&budget.Analytic{},
		&budget.AutoAssignRule{},
		&budget.BudgetPeriod{},
		&budget.BudgetLine{},
		&document.FinancialDocument{},
		&document.DocumentLine{},
		&document.PaymentRecord{},
	), "Failed to migrate test schema")

	return db
}

// FlowSetup wires the full service stack over one test database, the
// same way the server composes it.
type FlowSetup struct {
	DB *gorm.DB

	Analytics *budgetapp.AnalyticService
	Rules     *budgetapp.RuleService
	Budgets   *budgetapp.BudgetService
	Ledger    *budgetapp.LedgerService
	Documents *docapp.Service
	Recommend *recommend.Service
}

// NewFlowSetup builds repositories, the recommendation chain, the
// event bus and all application services on a fresh database.
func NewFlowSetup(t *testing.T) *FlowSetup {
	t.Helper()

	db := NewTestDB(t)
	log := zap.NewNop()

	analyticRepo := persistence.NewGormAnalyticRepository(db)
	ruleRepo := persistence.NewGormAutoAssignRuleRepository(db)
	budgetRepo := persistence.NewGormBudgetPeriodRepository(db)
	documentRepo := persistence.NewGormDocumentRepository(db)
	assignmentHistory := persistence.NewGormAssignmentHistory(db)

	matcher := recommend.NewRuleMatcher(ruleRepo)
	history := recommend.NewHistoryRecommender(assignmentHistory, recommend.MatchStrategyExact, 365)
	blender := recommend.NewBlender(0.7)
	recommendService := recommend.NewService(matcher, history, blender, analyticRepo, log)

	analyticService := budgetapp.NewAnalyticService(analyticRepo)
	ruleService := budgetapp.NewRuleService(ruleRepo, analyticRepo)
	budgetService := budgetapp.NewBudgetService(budgetRepo, analyticRepo)
	ledgerService := budgetapp.NewLedgerService(budgetRepo, log)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() {
		_ = store.Close()
	})

	documentService := docapp.NewService(documentRepo, recommendService, ledgerService, store, log)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(budgetapp.NewBudgetAlertHandler(log))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		_ = bus.Stop(context.Background())
	})

	analyticService.SetEventPublisher(bus)
	budgetService.SetEventPublisher(bus)
	ledgerService.SetEventPublisher(bus)
	documentService.SetEventPublisher(bus)

	return &FlowSetup{
		DB:        db,
		Analytics: analyticService,
		Rules:     ruleService,
		Budgets:   budgetService,
		Ledger:    ledgerService,
		Documents: documentService,
		Recommend: recommendService,
	}
}
