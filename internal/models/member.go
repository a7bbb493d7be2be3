package models

// Member represents one registered association member.
type Member struct {
	ID            string  `json:"id"`
	DossierNumber string  `json:"dossierNumber"`
	NationalID    string  `json:"nationalId"`
	UniqueID      string  `json:"uniqueId"`
	FullName      string  `json:"fullName"`
	BirthDate     string  `json:"birthDate"`
	Sector        string  `json:"sector"`
	Level         string  `json:"level"`
	Gender        string  `json:"gender"`
	Balance       float64 `json:"balance"`
}

// MemberSnapshot is the denormalized sector/level of a message author at
// post time. It is never recomputed from the member collection afterwards.
type MemberSnapshot struct {
	Sector string `json:"sector"`
	Level  string `json:"level"`
}
