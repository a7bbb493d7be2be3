package models

// Role is the permission level attached to a logged-in user.
type Role string

const (
	RoleTresorier Role = "TRESORIER"
	RolePresident Role = "PRESIDENT"
	RoleMembre    Role = "MEMBRE"
)

// Budget tracks allocation and consumption for one expense category in a
// fiscal year. SpentAmount is derived from approved expense transactions and
// is never set directly. Persisted reports whether the record exists in the
// remote store yet; a false value means ID is a locally generated placeholder.
type Budget struct {
	ID         string  `json:"id"`
	Category   string  `json:"category"`
	Allocated  float64 `json:"allocatedAmount"`
	Spent      float64 `json:"spentAmount"`
	FiscalYear int     `json:"fiscalYear"`
	Persisted  bool    `json:"-"`
}

// CommunityMessage is one post on the association board. Immutable once
// created, except for deletion.
type CommunityMessage struct {
	ID         string          `json:"id"`
	AuthorID   string          `json:"authorId"`
	AuthorName string          `json:"authorName"`
	AuthorRole Role            `json:"authorRole"`
	MemberInfo *MemberSnapshot `json:"memberInfo,omitempty"`
	Content    string          `json:"content"`
	CreatedAt  int64           `json:"createdAt"`
}

// Settings is the singleton association record.
type Settings struct {
	AssociationName string `json:"associationName"`
	CurrencyCode    string `json:"currencyCode"`
	LogoURL         string `json:"logoUrl"`
}

// Session is the in-memory principal produced by a successful login. Never
// persisted; destroyed on logout.
type Session struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
	MemberID    string `json:"memberId,omitempty"`
}

// Credential is one stored login record from the users collection.
type Credential struct {
	Email       string
	Password    string
	DisplayName string
	Role        Role
	MemberID    string
}
