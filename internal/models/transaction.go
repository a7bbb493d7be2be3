package models

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// TransactionStatus is the approval state of a transaction. Transitions only
// go PENDING -> APPROVED or PENDING -> REJECTED, never back.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusApproved TransactionStatus = "APPROVED"
	StatusRejected TransactionStatus = "REJECTED"
)

// Transaction represents one income or expense record.
type Transaction struct {
	ID            string            `json:"id"`
	Type          TransactionType   `json:"type"`
	Category      string            `json:"category"`
	Amount        float64           `json:"amount"`
	Date          string            `json:"date"`
	Description   string            `json:"description"`
	PerformedBy   string            `json:"performedBy"`
	PerformerUID  string            `json:"performerUid"`
	PerformerRole string            `json:"performerRole"`
	ApproverRole  string            `json:"approverRole"`
	Status        TransactionStatus `json:"status"`
	Signature     string            `json:"signature"`
	ReceiptNumber string            `json:"receiptNumber,omitempty"`
	ProofDocument string            `json:"proofDocument,omitempty"`
}

// Stats is the derived summary exposed to the UI, recomputed from the
// transaction snapshot on demand.
type Stats struct {
	Balance      float64 `json:"balance"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	PendingCount int     `json:"pendingCount"`
}
