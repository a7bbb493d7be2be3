package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"association-treasury/internal/models"
)

func TestDocID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), DocID(oid))
	assert.Equal(t, "plain", DocID("plain"))
	assert.Equal(t, "", DocID(nil))
	assert.Equal(t, "", DocID(42))
}

func TestMemberRoundTrip(t *testing.T) {
	m := models.Member{
		DossierNumber: "D-104",
		NationalID:    "109912345678",
		UniqueID:      "A12345678901",
		FullName:      "Karim Benali",
		BirthDate:     "1989-04-12",
		Sector:        "Informatique",
		Level:         "Master",
		Gender:        "M",
		Balance:       1250.5,
	}

	got := MemberFromDoc(MemberToDoc(m))
	assert.Equal(t, m, got)
}

func TestMemberFromDoc_NumericCoercion(t *testing.T) {
	tests := []struct {
		name    string
		balance interface{}
		want    float64
	}{
		{"double", 320.75, 320.75},
		{"int32", int32(320), 320},
		{"int64", int64(320), 320},
		{"numeric string", "320.75", 320.75},
		{"garbage string", "n/a", 0},
		{"absent", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{"full_name": "X"}
			if tt.balance != nil {
				doc["balance"] = tt.balance
			}
			assert.Equal(t, tt.want, MemberFromDoc(doc).Balance)
		})
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tx   models.Transaction
	}{
		{
			name: "income with receipt",
			tx: models.Transaction{
				Type:          models.TypeIncome,
				Category:      "Cotisations",
				Amount:        15000,
				Date:          "2026-03-01",
				Description:   "Cotisations annuelles",
				PerformedBy:   "Karim Benali",
				PerformerUID:  "A12345678901",
				PerformerRole: "Trésorier",
				ApproverRole:  "PRESIDENT",
				Status:        models.StatusApproved,
				Signature:     "sig-1",
				ReceiptNumber: "REC-20260301-AB12CD34",
			},
		},
		{
			name: "expense without optionals",
			tx: models.Transaction{
				Type:      models.TypeExpense,
				Category:  "Transport",
				Amount:    2000,
				Status:    models.StatusPending,
				Signature: "sig-2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransactionFromDoc(TransactionToDoc(tt.tx))
			assert.Equal(t, tt.tx, got)
		})
	}
}

func TestTransactionToDoc_OptionalsOmittedWhenAbsent(t *testing.T) {
	doc := TransactionToDoc(models.Transaction{Type: models.TypeExpense, Status: models.StatusPending})
	_, hasReceipt := doc["receipt_number"]
	_, hasProof := doc["proof_document"]
	assert.False(t, hasReceipt)
	assert.False(t, hasProof)
}

func TestBudgetFromDoc_MarksPersisted(t *testing.T) {
	b := BudgetFromDoc(bson.M{
		"_id":              "b1",
		"category":         "Transport",
		"allocated_amount": "5000",
		"spent_amount":     1200.0,
		"fiscal_year":      int32(2026),
	})

	assert.True(t, b.Persisted, "a record read from the remote store is persisted")
	assert.Equal(t, 5000.0, b.Allocated)
	assert.Equal(t, 1200.0, b.Spent)
	assert.Equal(t, 2026, b.FiscalYear)
}

func TestMessageRoundTrip_WithSnapshot(t *testing.T) {
	m := models.CommunityMessage{
		AuthorID:   "membre@amicale.dz",
		AuthorName: "Lina",
		AuthorRole: models.RoleMembre,
		MemberInfo: &models.MemberSnapshot{Sector: "Informatique", Level: "Licence"},
		Content:    "Réunion jeudi",
		CreatedAt:  1767225600,
	}

	got := MessageFromDoc(MessageToDoc(m))
	require.NotNil(t, got.MemberInfo)
	assert.Equal(t, m, got)
}

func TestMessageFromDoc_MemberInfo(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want *models.MemberSnapshot
	}{
		{"valid json", `{"sector":"Informatique","level":"Licence"}`, &models.MemberSnapshot{Sector: "Informatique", Level: "Licence"}},
		{"malformed json fails closed", `{"sector":`, nil},
		{"absent", nil, nil},
		{"empty string", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{"content": "x"}
			if tt.raw != nil {
				doc["member_info"] = tt.raw
			}
			assert.Equal(t, tt.want, MessageFromDoc(doc).MemberInfo)
		})
	}
}

func TestMessageFromDoc_UnrecognizedFieldsDropped(t *testing.T) {
	got := MessageFromDoc(bson.M{
		"content":       "x",
		"legacy_column": "ignored",
	})
	assert.Equal(t, "x", got.Content)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := models.Settings{AssociationName: "Amicale", CurrencyCode: "DZD", LogoURL: "https://cdn/logo.png"}
	assert.Equal(t, s, SettingsFromDoc(SettingsToDoc(s)))
}

func TestCredentialFromDoc(t *testing.T) {
	got := CredentialFromDoc(bson.M{
		"email":        "tresorier@amicale.dz",
		"password":     "secret",
		"display_name": "Ahmed",
		"role":         "TRESORIER",
		"member_id":    "m1",
	})
	assert.Equal(t, models.Credential{
		Email:       "tresorier@amicale.dz",
		Password:    "secret",
		DisplayName: "Ahmed",
		Role:        models.RoleTresorier,
		MemberID:    "m1",
	}, got)
}
