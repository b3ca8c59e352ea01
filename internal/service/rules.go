package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

// RuleService validates, stores and applies categorization rules.
type RuleService struct {
	DB         *sql.DB
	Rules      *repository.RuleRepo
	Categories *repository.CategoryRepo
}

// compiledRule pairs a stored rule with its compiled pattern.
type compiledRule struct {
	re         *regexp.Regexp
	categoryID int64
}

// Matcher resolves descriptions to category ids, first rule wins.
type Matcher struct {
	rules    []compiledRule
	fallback int64 // Uncategorized
}

// AddRule validates the pattern and stores the rule. Invalid patterns are
// rejected, never stored.
func (s *RuleService) AddRule(ctx context.Context, keyword string, categoryID int64) (int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return 0, fmt.Errorf("rule keyword is required")
	}
	if _, err := regexp.Compile("(?i)" + keyword); err != nil {
		return 0, fmt.Errorf("invalid pattern %q: %w", keyword, err)
	}
	cat, err := s.Categories.Get(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, fmt.Errorf("category %d not found", categoryID)
	}
	return s.Rules.Add(ctx, repository.CategoryRule{Keyword: keyword, CategoryID: categoryID})
}

// Matcher loads all rules in evaluation order. Stored patterns that fail to
// compile (written by an older build or a foreign store) are skipped, which
// reads as "rule does not match".
func (s *RuleService) Matcher(ctx context.Context) (*Matcher, error) {
	rules, err := s.Rules.List(ctx)
	if err != nil {
		return nil, err
	}
	uncat, err := s.Categories.GetByName(ctx, repository.CategoryUncategorized)
	if err != nil {
		return nil, err
	}
	if uncat == nil {
		return nil, fmt.Errorf("category %q missing", repository.CategoryUncategorized)
	}
	m := &Matcher{fallback: uncat.ID}
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Keyword)
		if err != nil {
			continue
		}
		m.rules = append(m.rules, compiledRule{re: re, categoryID: r.CategoryID})
	}
	return m, nil
}

// Categorize returns the category for a description: the first matching
// rule's target, or Uncategorized.
func (m *Matcher) Categorize(description string) int64 {
	for _, r := range m.rules {
		if r.re.MatchString(description) {
			return r.categoryID
		}
	}
	return m.fallback
}

// Apply re-runs every rule over the whole transaction table and returns how
// many rows actually changed category. Re-applying the same rule set is
// idempotent: the second run reports zero. All updates commit atomically.
func (s *RuleService) Apply(ctx context.Context, txns *repository.TransactionRepo) (int, error) {
	m, err := s.Matcher(ctx)
	if err != nil {
		return 0, err
	}
	if len(m.rules) == 0 {
		return 0, nil
	}
	all, err := txns.List(ctx, repository.TransactionFilters{})
	if err != nil {
		return 0, err
	}

	type change struct {
		id    int64
		catID int64
	}
	var changes []change
	for _, t := range all {
		matched, catID := m.match(t.Description)
		if !matched {
			continue
		}
		if t.CategoryID != nil && *t.CategoryID == catID {
			continue
		}
		changes = append(changes, change{id: t.ID, catID: catID})
	}
	if len(changes) == 0 {
		return 0, nil
	}

	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`UPDATE "transaction" SET category_id = ? WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, c := range changes {
			if _, err := stmt.Exec(c.catID, c.id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(changes), nil
}

// match reports whether any rule matched; unlike Categorize it does not fall
// back to Uncategorized, so historical rows keep manual categories when no
// rule covers them.
func (m *Matcher) match(description string) (bool, int64) {
	for _, r := range m.rules {
		if r.re.MatchString(description) {
			return true, r.categoryID
		}
	}
	return false, 0
}
