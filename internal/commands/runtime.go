package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vimmoos/budget-app/internal/config"
	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
	"github.com/vimmoos/budget-app/internal/report"
	"github.com/vimmoos/budget-app/internal/service"
)

// runtime wires config, storage and services for a single command
// invocation.
type runtime struct {
	cfg config.Config
	db  *sql.DB

	accounts     *repository.AccountRepo
	categories   *repository.CategoryRepo
	ruleStore    *repository.RuleRepo
	transactions *repository.TransactionRepo
	budgetStore  *repository.BudgetRepo
	notes        *repository.NoteRepo

	rules       *service.RuleService
	ingest      *service.IngestService
	transfers   *service.TransferService
	funds       *service.FundsService
	advisor     *service.AdvisorService
	balances    *service.BalanceService
	budgets     *service.BudgetService
	txnService  *service.TransactionService
	merge       *service.MergeService
	maintenance *service.MaintenanceService

	render *report.Renderer
}

// openRuntime loads configuration, migrates the store and builds the
// service graph. Callers must Close it.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path, cfg.Database.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrating store: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding defaults: %w", err)
	}

	rt := &runtime{cfg: cfg, db: db}
	rt.accounts = repository.NewAccountRepo(db)
	rt.categories = repository.NewCategoryRepo(db)
	rt.ruleStore = repository.NewRuleRepo(db)
	rt.transactions = repository.NewTransactionRepo(db)
	rt.budgetStore = repository.NewBudgetRepo(db)
	rt.notes = repository.NewNoteRepo(db)

	rt.rules = &service.RuleService{DB: db, Rules: rt.ruleStore, Categories: rt.categories}
	rt.ingest = &service.IngestService{Transactions: rt.transactions, Accounts: rt.accounts, Rules: rt.rules}
	rt.transfers = &service.TransferService{DB: db, Transactions: rt.transactions, Categories: rt.categories}
	rt.funds = &service.FundsService{DB: db, Transactions: rt.transactions, Accounts: rt.accounts, Categories: rt.categories}
	rt.advisor = &service.AdvisorService{DB: db, Transactions: rt.transactions}
	rt.balances = &service.BalanceService{Accounts: rt.accounts, Transactions: rt.transactions}
	rt.budgets = &service.BudgetService{DB: db, Budgets: rt.budgetStore, Categories: rt.categories, Transactions: rt.transactions}
	rt.txnService = &service.TransactionService{Transactions: rt.transactions, Categories: rt.categories, Accounts: rt.accounts}
	rt.merge = &service.MergeService{DB: db, Notes: rt.notes}
	rt.maintenance = &service.MaintenanceService{DBPath: cfg.Database.Path, BackupDir: cfg.Database.BackupDir}
	rt.render = &report.Renderer{CurrencySymbol: cfg.UI.CurrencySymbol}
	return rt, nil
}

func (r *runtime) Close() error {
	return r.db.Close()
}

// categoryNames builds an id to name map for display.
func (r *runtime) categoryNames(ctx context.Context) (map[int64]string, error) {
	cats, err := r.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}
