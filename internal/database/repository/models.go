package repository

// Account represents a bank account row. InitialBalance is the baseline
// before any recorded transaction; ImportConfig remembers the last column
// mapping used for this account's statements (serialized JSON).
type Account struct {
	ID             int64
	Name           string
	InitialBalance float64
	ImportConfig   *string
}

// Category groups transactions for budgeting and analytics.
type Category struct {
	ID               int64
	Name             string
	Group            string
	Type             string
	DefaultAccountID *int64
}

// Category groups and types.
const (
	GroupNeeds         = "Needs"
	GroupWants         = "Wants"
	GroupSavings       = "Savings"
	GroupIncome        = "Income"
	GroupDiscretionary = "Discretionary"
	GroupTransfers     = "Transfers"

	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

// Reserved category names the rest of the system relies on.
const (
	CategoryTransfer      = "Transfer"
	CategoryUncategorized = "Uncategorized"
)

// CategoryRule maps a regex keyword to a category. Rules apply in id order,
// first match wins. Patterns are validated before they are stored.
type CategoryRule struct {
	ID         int64
	Keyword    string
	CategoryID int64
}

// Transaction is a single ledger row. Amount sign is the classification:
// negative = expense, positive = income. Virtual rows count toward spending
// analytics but never toward real account balances.
type Transaction struct {
	ID          int64
	Date        string // YYYY-MM-DD, or the raw source string if unparseable
	Description string
	Amount      float64
	CategoryID  *int64
	AccountID   *int64
	UniqueHash  string
	IsVirtual   bool
	IsSettled   bool
}

// TxnState is the explicit view of the (IsVirtual, IsSettled) pair. Legal
// transitions are RealOpen->RealSettled and VirtualOpen->VirtualSettled;
// nothing ever changes virtual-ness.
type TxnState int

const (
	RealOpen TxnState = iota
	RealSettled
	VirtualOpen
	VirtualSettled
)

// State derives the transaction's state from its flags.
func (t Transaction) State() TxnState {
	switch {
	case t.IsVirtual && t.IsSettled:
		return VirtualSettled
	case t.IsVirtual:
		return VirtualOpen
	case t.IsSettled:
		return RealSettled
	default:
		return RealOpen
	}
}

func (s TxnState) String() string {
	switch s {
	case RealOpen:
		return "real-open"
	case RealSettled:
		return "real-settled"
	case VirtualOpen:
		return "virtual-open"
	case VirtualSettled:
		return "virtual-settled"
	}
	return "unknown"
}

// Settled reports whether s is a terminal state.
func (s TxnState) Settled() bool { return s == RealSettled || s == VirtualSettled }

// Budget is a month-independent recurring target for one category. The
// schema allows duplicates per category; the business layer keeps one.
type Budget struct {
	ID         int64
	CategoryID int64
	Amount     float64
}

// Note is the single freeform scratchpad.
type Note struct {
	ID        int64
	Content   string
	UpdatedAt string // ISO 8601, refreshed on every write
}
