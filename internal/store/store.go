// Package store holds the in-memory mirror of the remote collections. It is
// the only data source the UI reads and the only writer of its own state;
// every change goes through a mutation entry point.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"association-treasury/internal/config"
	"association-treasury/internal/models"
	"association-treasury/internal/utils"
)

// Remote is the round-trip surface the store persists through. Implemented
// by database.DB; tests substitute a fake.
type Remote interface {
	Members(ctx context.Context) ([]models.Member, error)
	InsertMember(ctx context.Context, m models.Member) (string, error)
	UpdateMember(ctx context.Context, m models.Member) error
	DeleteMember(ctx context.Context, id string) error

	Transactions(ctx context.Context) ([]models.Transaction, error)
	InsertTransaction(ctx context.Context, t models.Transaction) (string, error)
	UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) error
	DeleteTransaction(ctx context.Context, id string) error

	Budgets(ctx context.Context) ([]models.Budget, error)
	InsertBudget(ctx context.Context, b models.Budget) (string, error)
	UpdateBudgetAllocation(ctx context.Context, id string, amount float64) error

	Messages(ctx context.Context) ([]models.CommunityMessage, error)
	InsertMessage(ctx context.Context, m models.CommunityMessage) (string, error)
	DeleteMessage(ctx context.Context, id string) error

	Settings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, s models.Settings) error

	FindCredential(ctx context.Context, email string) (*models.Credential, error)
}

// Store is the local cache. All fields are guarded by mu; mutation happens
// only through the entry points below, never by external field access.
type Store struct {
	mu     sync.Mutex
	remote Remote
	cfg    *config.Config
	log    zerolog.Logger

	members      []models.Member
	transactions []models.Transaction
	budgets      []models.Budget
	messages     []models.CommunityMessage
	settings     models.Settings
	session      *models.Session
}

// New creates an empty store. Call Refresh to hydrate it from the remote
// store before serving readers.
func New(remote Remote, cfg *config.Config, log zerolog.Logger) *Store {
	return &Store{
		remote: remote,
		cfg:    cfg,
		log:    log.With().Str("component", "store").Logger(),
		settings: models.Settings{
			AssociationName: cfg.AssociationName,
			CurrencyCode:    cfg.CurrencyCode,
		},
	}
}

// Refresh reloads every collection from the remote store, replacing the
// snapshot wholesale, then reseeds default-category budgets and recomputes
// consumption. Used at startup and by the periodic resync.
func (s *Store) Refresh(ctx context.Context) error {
	members, err := s.remote.Members(ctx)
	if err != nil {
		return err
	}
	transactions, err := s.remote.Transactions(ctx)
	if err != nil {
		return err
	}
	budgets, err := s.remote.Budgets(ctx)
	if err != nil {
		return err
	}
	messages, err := s.remote.Messages(ctx)
	if err != nil {
		return err
	}
	settings, err := s.remote.Settings(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = members
	s.transactions = transactions
	s.budgets = budgets
	s.messages = messages
	if settings != nil {
		s.settings = *settings
	}
	s.seedDefaultBudgetsLocked()
	s.recomputeBudgetsLocked()
	return nil
}

// seedDefaultBudgetsLocked creates a pending placeholder budget for every
// configured category that has no budget in the current fiscal year. These
// are not written remotely until their allocation is first set.
func (s *Store) seedDefaultBudgetsLocked() {
	for _, category := range s.cfg.Categories {
		if s.findBudgetLocked(category, s.cfg.FiscalYear) >= 0 {
			continue
		}
		s.budgets = append(s.budgets, models.Budget{
			ID:         utils.GeneratePlaceholderID(),
			Category:   category,
			FiscalYear: s.cfg.FiscalYear,
			Persisted:  false,
		})
	}
}

func (s *Store) findBudgetLocked(category string, fiscalYear int) int {
	for i, b := range s.budgets {
		if b.Category == category && b.FiscalYear == fiscalYear {
			return i
		}
	}
	return -1
}

// recomputeBudgetsLocked re-derives budget consumption from the transaction
// set. The equality guard keeps an identical result from registering as a
// new mutation, so recomputation can never feed back into itself.
func (s *Store) recomputeBudgetsLocked() {
	next := RecomputeBudgets(s.transactions, s.budgets)
	if !budgetsEqual(next, s.budgets) {
		s.budgets = next
	}
}

// AddTransaction creates a transaction for the current session: a TRESORIER
// session's transaction is approved immediately, any other role's starts
// pending; an income transaction receives its receipt number at creation.
// The optimistic entry is appended before the remote round trip; if the
// round trip fails the entry remains with its placeholder identifier.
func (s *Store) AddTransaction(ctx context.Context, t models.Transaction) {
	if err := utils.ValidateAmount(t.Amount); err != nil {
		s.log.Error().Err(err).Msg("rejected transaction")
		return
	}

	s.mu.Lock()
	t.ID = utils.GeneratePlaceholderID()
	t.Signature = utils.GenerateSignature()
	t.Status = models.StatusPending
	if s.session != nil && s.session.Role == models.RoleTresorier {
		t.Status = models.StatusApproved
	}
	if t.Type == models.TypeIncome {
		t.ReceiptNumber = utils.GenerateReceiptNumber()
	} else {
		t.ReceiptNumber = ""
	}
	s.transactions = append(s.transactions, t)
	placeholder := t.ID
	s.recomputeBudgetsLocked()
	s.mu.Unlock()

	id, err := s.remote.InsertTransaction(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to persist transaction")
		return
	}

	s.mu.Lock()
	for i := range s.transactions {
		if s.transactions[i].ID == placeholder {
			s.transactions[i].ID = id
			break
		}
	}
	s.mu.Unlock()
}

// setTransactionStatus transitions a pending transaction. Non-pending
// transactions are left untouched in either direction.
func (s *Store) setTransactionStatus(ctx context.Context, id string, status models.TransactionStatus) {
	s.mu.Lock()
	idx := -1
	for i, t := range s.transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || s.transactions[idx].Status != models.StatusPending {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.remote.UpdateTransactionStatus(ctx, id, status); err != nil {
		s.log.Error().Err(err).Str("transaction", id).Msg("failed to update transaction status")
		return
	}

	s.mu.Lock()
	for i := range s.transactions {
		if s.transactions[i].ID == id && s.transactions[i].Status == models.StatusPending {
			s.transactions[i].Status = status
			break
		}
	}
	s.recomputeBudgetsLocked()
	s.mu.Unlock()
}

// ApproveTransaction approves a pending transaction. A no-op on any other
// status.
func (s *Store) ApproveTransaction(ctx context.Context, id string) {
	s.setTransactionStatus(ctx, id, models.StatusApproved)
}

// RejectTransaction rejects a pending transaction. A no-op on any other
// status.
func (s *Store) RejectTransaction(ctx context.Context, id string) {
	s.setTransactionStatus(ctx, id, models.StatusRejected)
}

// DeleteTransaction removes a transaction remotely and from the cache.
func (s *Store) DeleteTransaction(ctx context.Context, id string) {
	if err := s.remote.DeleteTransaction(ctx, id); err != nil {
		s.log.Error().Err(err).Str("transaction", id).Msg("failed to delete transaction")
		return
	}

	s.mu.Lock()
	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			break
		}
	}
	s.recomputeBudgetsLocked()
	s.mu.Unlock()
}

// AddMember registers a member, generating the gendered unique identifier.
func (s *Store) AddMember(ctx context.Context, m models.Member) {
	m.UniqueID = utils.GenerateUniqueID(m.Gender)

	id, err := s.remote.InsertMember(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to insert member")
		return
	}
	m.ID = id

	s.mu.Lock()
	s.members = append(s.members, m)
	s.mu.Unlock()
}

// UpdateMember overwrites a member's mutable fields. The unique identifier
// is immutable once assigned and is carried over from the cached entry.
func (s *Store) UpdateMember(ctx context.Context, m models.Member) {
	s.mu.Lock()
	for _, existing := range s.members {
		if existing.ID == m.ID {
			m.UniqueID = existing.UniqueID
			break
		}
	}
	s.mu.Unlock()

	if err := s.remote.UpdateMember(ctx, m); err != nil {
		s.log.Error().Err(err).Str("member", m.ID).Msg("failed to update member")
		return
	}

	s.mu.Lock()
	for i, existing := range s.members {
		if existing.ID == m.ID {
			s.members[i] = m
			break
		}
	}
	s.mu.Unlock()
}

// DeleteMember removes a member remotely and from the cache.
func (s *Store) DeleteMember(ctx context.Context, id string) {
	if err := s.remote.DeleteMember(ctx, id); err != nil {
		s.log.Error().Err(err).Str("member", id).Msg("failed to delete member")
		return
	}

	s.mu.Lock()
	for i, m := range s.members {
		if m.ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}

// SetBudgetAllocation sets the allocated amount of a budget. A budget still
// carrying its local placeholder is inserted remotely and its cache entry
// replaced with the server-assigned identifier; a persisted budget gets a
// plain update. The Persisted tag is the single source of truth for whether
// the record exists remotely.
func (s *Store) SetBudgetAllocation(ctx context.Context, id string, amount float64) {
	s.mu.Lock()
	idx := -1
	for i, b := range s.budgets {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.log.Warn().Str("budget", id).Msg("allocation update for unknown budget")
		return
	}
	budget := s.budgets[idx]
	s.mu.Unlock()

	budget.Allocated = amount

	if !budget.Persisted {
		remoteID, err := s.remote.InsertBudget(ctx, budget)
		if err != nil {
			s.log.Error().Err(err).Str("category", budget.Category).Msg("failed to insert budget")
			return
		}
		budget.ID = remoteID
		budget.Persisted = true
	} else {
		if err := s.remote.UpdateBudgetAllocation(ctx, budget.ID, amount); err != nil {
			s.log.Error().Err(err).Str("budget", budget.ID).Msg("failed to update budget allocation")
			return
		}
	}

	s.mu.Lock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets[i] = budget
			break
		}
	}
	s.recomputeBudgetsLocked()
	s.mu.Unlock()
}

// PostMessage publishes a board message authored by the current session,
// with a snapshot of the author's sector and level taken at post time. The
// optimistic entry is appended before the round trip; the change stream may
// later deliver the same message again, which is accepted as a transient
// duplicate.
func (s *Store) PostMessage(ctx context.Context, content string) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		s.log.Warn().Msg("message post without session")
		return
	}
	msg := models.CommunityMessage{
		ID:         utils.GeneratePlaceholderID(),
		AuthorID:   s.session.Email,
		AuthorName: s.session.DisplayName,
		AuthorRole: s.session.Role,
		Content:    content,
		CreatedAt:  time.Now().Unix(),
	}
	if s.session.MemberID != "" {
		for _, m := range s.members {
			if m.ID == s.session.MemberID {
				msg.MemberInfo = &models.MemberSnapshot{Sector: m.Sector, Level: m.Level}
				break
			}
		}
	}
	s.messages = append(s.messages, msg)
	placeholder := msg.ID
	s.mu.Unlock()

	id, err := s.remote.InsertMessage(ctx, msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to persist message")
		return
	}

	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID == placeholder {
			s.messages[i].ID = id
			break
		}
	}
	s.mu.Unlock()
}

// RemoveMessage deletes a board message remotely and from the cache. The
// delete event echoed by the change stream then finds nothing to remove.
func (s *Store) RemoveMessage(ctx context.Context, id string) {
	if err := s.remote.DeleteMessage(ctx, id); err != nil {
		s.log.Error().Err(err).Str("message", id).Msg("failed to delete message")
		return
	}
	s.ApplyMessageDelete(id)
}

// ApplyMessageInsert appends a message delivered by the change stream, in
// arrival order. No deduplication against optimistic entries.
func (s *Store) ApplyMessageInsert(m models.CommunityMessage) {
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
}

// ApplyMessageDelete removes the message with the given identifier, if
// present.
func (s *Store) ApplyMessageDelete(id string) {
	s.mu.Lock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
}

// UpdateSettings replaces the singleton settings record.
func (s *Store) UpdateSettings(ctx context.Context, settings models.Settings) {
	if err := s.remote.UpdateSettings(ctx, settings); err != nil {
		s.log.Error().Err(err).Msg("failed to update settings")
		return
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Login checks the email and secret against the users collection and, on an
// exact match, installs the session. Any remote error fails closed, same as
// a miss.
func (s *Store) Login(ctx context.Context, email, secret string) bool {
	cred, err := s.remote.FindCredential(ctx, email)
	if err != nil {
		s.log.Error().Err(err).Msg("credential lookup failed")
		return false
	}
	if cred == nil || cred.Password != secret {
		return false
	}

	s.mu.Lock()
	s.session = &models.Session{
		Email:       cred.Email,
		DisplayName: cred.DisplayName,
		Role:        cred.Role,
		MemberID:    cred.MemberID,
	}
	s.mu.Unlock()
	return true
}

// Logout clears the session. No remote call.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// Members returns a copy of the member snapshot.
func (s *Store) Members() []models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Member(nil), s.members...)
}

// Transactions returns a copy of the transaction snapshot.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Transaction(nil), s.transactions...)
}

// Budgets returns a copy of the budget snapshot.
func (s *Store) Budgets() []models.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Budget(nil), s.budgets...)
}

// Messages returns a copy of the message snapshot.
func (s *Store) Messages() []models.CommunityMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CommunityMessage(nil), s.messages...)
}

// Settings returns the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Session returns the current session, or nil when nobody is logged in.
func (s *Store) Session() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Stats derives the summary figures from the current transaction snapshot.
// Computed on demand, never cached.
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DeriveStats(s.transactions)
}
