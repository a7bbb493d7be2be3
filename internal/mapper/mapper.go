// Package mapper owns the translation between the remote record shape
// (flat documents with underscore_separated keys) and the internal entity
// shape. No other package reads or writes remote field names.
package mapper

import (
	"encoding/json"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"association-treasury/internal/models"
)

// DocID extracts the identifier of a remote document as a string, whether
// the store assigned an ObjectID or the record carries a plain string key.
func DocID(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

// asString reads a string field, returning "" when absent or not a string.
func asString(doc bson.M, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

// asFloat reads a monetary field. Remote records store amounts as doubles,
// integers, or numeric strings depending on how they were written.
func asFloat(doc bson.M, key string) float64 {
	switch v := doc[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt(doc bson.M, key string) int {
	return int(asFloat(doc, key))
}

func asInt64(doc bson.M, key string) int64 {
	return int64(asFloat(doc, key))
}

// MemberFromDoc maps a remote members record to a Member.
func MemberFromDoc(doc bson.M) models.Member {
	return models.Member{
		ID:            DocID(doc["_id"]),
		DossierNumber: asString(doc, "dossier_number"),
		NationalID:    asString(doc, "national_id"),
		UniqueID:      asString(doc, "unique_id"),
		FullName:      asString(doc, "full_name"),
		BirthDate:     asString(doc, "birth_date"),
		Sector:        asString(doc, "sector"),
		Level:         asString(doc, "level"),
		Gender:        asString(doc, "gender"),
		Balance:       asFloat(doc, "balance"),
	}
}

// MemberToDoc maps a Member to the remote record shape. The identifier is
// omitted; the remote store owns key assignment.
func MemberToDoc(m models.Member) bson.M {
	return bson.M{
		"dossier_number": m.DossierNumber,
		"national_id":    m.NationalID,
		"unique_id":      m.UniqueID,
		"full_name":      m.FullName,
		"birth_date":     m.BirthDate,
		"sector":         m.Sector,
		"level":          m.Level,
		"gender":         m.Gender,
		"balance":        m.Balance,
	}
}

// TransactionFromDoc maps a remote transactions record to a Transaction.
func TransactionFromDoc(doc bson.M) models.Transaction {
	return models.Transaction{
		ID:            DocID(doc["_id"]),
		Type:          models.TransactionType(asString(doc, "type")),
		Category:      asString(doc, "category"),
		Amount:        asFloat(doc, "amount"),
		Date:          asString(doc, "date"),
		Description:   asString(doc, "description"),
		PerformedBy:   asString(doc, "performed_by"),
		PerformerUID:  asString(doc, "performer_uid"),
		PerformerRole: asString(doc, "performer_role"),
		ApproverRole:  asString(doc, "approver_role"),
		Status:        models.TransactionStatus(asString(doc, "status")),
		Signature:     asString(doc, "signature"),
		ReceiptNumber: asString(doc, "receipt_number"),
		ProofDocument: asString(doc, "proof_document"),
	}
}

// TransactionToDoc maps a Transaction to the remote record shape. Optional
// fields are written only when present.
func TransactionToDoc(t models.Transaction) bson.M {
	doc := bson.M{
		"type":           string(t.Type),
		"category":       t.Category,
		"amount":         t.Amount,
		"date":           t.Date,
		"description":    t.Description,
		"performed_by":   t.PerformedBy,
		"performer_uid":  t.PerformerUID,
		"performer_role": t.PerformerRole,
		"approver_role":  t.ApproverRole,
		"status":         string(t.Status),
		"signature":      t.Signature,
	}
	if t.ReceiptNumber != "" {
		doc["receipt_number"] = t.ReceiptNumber
	}
	if t.ProofDocument != "" {
		doc["proof_document"] = t.ProofDocument
	}
	return doc
}

// BudgetFromDoc maps a remote budgets record to a Budget. A record read from
// the remote store is by definition persisted.
func BudgetFromDoc(doc bson.M) models.Budget {
	return models.Budget{
		ID:         DocID(doc["_id"]),
		Category:   asString(doc, "category"),
		Allocated:  asFloat(doc, "allocated_amount"),
		Spent:      asFloat(doc, "spent_amount"),
		FiscalYear: asInt(doc, "fiscal_year"),
		Persisted:  true,
	}
}

// BudgetToDoc maps a Budget to the remote record shape.
func BudgetToDoc(b models.Budget) bson.M {
	return bson.M{
		"category":         b.Category,
		"allocated_amount": b.Allocated,
		"spent_amount":     b.Spent,
		"fiscal_year":      b.FiscalYear,
	}
}

// MessageFromDoc maps a remote messages record to a CommunityMessage. The
// member_info column is a JSON-encoded snapshot; malformed or absent JSON
// maps to nil rather than failing the whole batch.
func MessageFromDoc(doc bson.M) models.CommunityMessage {
	msg := models.CommunityMessage{
		ID:         DocID(doc["_id"]),
		AuthorID:   asString(doc, "author_id"),
		AuthorName: asString(doc, "author_name"),
		AuthorRole: models.Role(asString(doc, "author_role")),
		Content:    asString(doc, "content"),
		CreatedAt:  asInt64(doc, "created_at"),
	}
	if raw := asString(doc, "member_info"); raw != "" {
		var info models.MemberSnapshot
		if err := json.Unmarshal([]byte(raw), &info); err == nil {
			msg.MemberInfo = &info
		}
	}
	return msg
}

// MessageToDoc maps a CommunityMessage to the remote record shape.
func MessageToDoc(m models.CommunityMessage) bson.M {
	doc := bson.M{
		"author_id":   m.AuthorID,
		"author_name": m.AuthorName,
		"author_role": string(m.AuthorRole),
		"content":     m.Content,
		"created_at":  m.CreatedAt,
	}
	if m.MemberInfo != nil {
		if raw, err := json.Marshal(m.MemberInfo); err == nil {
			doc["member_info"] = string(raw)
		}
	}
	return doc
}

// SettingsFromDoc maps the singleton settings record.
func SettingsFromDoc(doc bson.M) models.Settings {
	return models.Settings{
		AssociationName: asString(doc, "association_name"),
		CurrencyCode:    asString(doc, "currency_code"),
		LogoURL:         asString(doc, "logo_url"),
	}
}

// SettingsToDoc maps Settings to the remote record shape.
func SettingsToDoc(s models.Settings) bson.M {
	return bson.M{
		"association_name": s.AssociationName,
		"currency_code":    s.CurrencyCode,
		"logo_url":         s.LogoURL,
	}
}

// CredentialFromDoc maps a remote users record to a Credential.
func CredentialFromDoc(doc bson.M) models.Credential {
	return models.Credential{
		Email:       asString(doc, "email"),
		Password:    asString(doc, "password"),
		DisplayName: asString(doc, "display_name"),
		Role:        models.Role(asString(doc, "role")),
		MemberID:    asString(doc, "member_id"),
	}
}
