package models

import "time"

// Role is the group a StageConnect account belongs to
type Role string

const (
	RoleStudent       Role = "Etudiant"
	RoleCompany       Role = "Entreprise"
	RoleManager       Role = "Responsable"
	RoleAdministrator Role = "Administrateur"
)

// Roles lists every role a user can register with
var Roles = []Role{RoleStudent, RoleCompany, RoleManager, RoleAdministrator}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns an English display name for the role
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleCompany:
		return "company"
	case RoleManager:
		return "manager"
	case RoleAdministrator:
		return "administrator"
	default:
		return "none"
	}
}

// ParseRole accepts either the wire value or the English label
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if s == string(r) || s == r.Label() {
			return r, true
		}
	}
	return "", false
}

// User is the authenticated identity returned by the auth endpoints
type User struct {
	ID        int    `json:"id" yaml:"id"`
	Username  string `json:"username" yaml:"username"`
	Email     string `json:"email" yaml:"email"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Role      *Role  `json:"role" yaml:"role"` // nil for accounts without a group
}

// HasRole reports whether the user carries one of the given roles
func (u User) HasRole(roles ...Role) bool {
	if u.Role == nil {
		return false
	}
	for _, r := range roles {
		if *u.Role == r {
			return true
		}
	}
	return false
}

// DisplayName prefers the full name and falls back to the username
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// OfferState is the lifecycle state of an internship offer
type OfferState string

const (
	OfferPendingValidation OfferState = "En attente validation"
	OfferValidated         OfferState = "Validée"
	OfferRefused           OfferState = "Refusée"
	OfferClosed            OfferState = "Clôturée"
)

// OfferStates lists the offer states in lifecycle order
var OfferStates = []OfferState{OfferPendingValidation, OfferValidated, OfferRefused, OfferClosed}

func (s OfferState) Valid() bool {
	for _, known := range OfferStates {
		if s == known {
			return true
		}
	}
	return false
}

// ParseOfferState accepts the wire value or pending/validated/refused/closed
func ParseOfferState(s string) (OfferState, bool) {
	switch s {
	case "pending":
		return OfferPendingValidation, true
	case "validated":
		return OfferValidated, true
	case "refused":
		return OfferRefused, true
	case "closed":
		return OfferClosed, true
	}
	state := OfferState(s)
	return state, state.Valid()
}

// Offer represents an internship posting
type Offer struct {
	ID               int        `json:"id" yaml:"id"`
	Organisme        string     `json:"organisme" yaml:"organisme"`
	ContactName      string     `json:"contact_name" yaml:"contact_name"`
	ContactEmail     string     `json:"contact_email" yaml:"contact_email"`
	DateDepot        time.Time  `json:"date_depot" yaml:"date_depot"`
	Title            string     `json:"title" yaml:"title"`
	Description      string     `json:"description" yaml:"description"`
	State            OfferState `json:"state" yaml:"state"`
	ClosingReason    *string    `json:"closing_reason" yaml:"closing_reason"`
	CandidatureCount int        `json:"candidature_count" yaml:"candidature_count"`
	HasApplied       bool       `json:"has_applied" yaml:"has_applied"`
	Company          *int       `json:"company" yaml:"company"`
	CompanyName      *string    `json:"company_name" yaml:"company_name"`
	City             string     `json:"city,omitempty" yaml:"city,omitempty"`
	Duration         string     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Domain           string     `json:"domain,omitempty" yaml:"domain,omitempty"`
	Remote           *bool      `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// OfferInput is the writable subset of an offer, used for create and
// partial update. Nil fields are left out of the request body.
type OfferInput struct {
	Organisme    *string `json:"organisme,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	City         *string `json:"city,omitempty"`
	Duration     *string `json:"duration,omitempty"`
	Domain       *string `json:"domain,omitempty"`
	Remote       *bool   `json:"remote,omitempty"`
}

// OfferFilter holds the server-side search parameters of the offer list
type OfferFilter struct {
	Search   string
	City     string
	Duration string
	Domain   string
	Remote   string // "true", "false" or empty
}

// ValidationAction is the decision sent by a manager on a pending offer
type ValidationAction string

const (
	ActionValidate ValidationAction = "validate"
	ActionRefuse   ValidationAction = "refuse"
)

// CandidatureStatus is the status of a student's application
type CandidatureStatus string

const (
	CandidaturePending  CandidatureStatus = "En attente"
	CandidatureAccepted CandidatureStatus = "Acceptée"
	CandidatureRefused  CandidatureStatus = "Refusée"
)

// CandidatureStatuses lists the candidacy statuses
var CandidatureStatuses = []CandidatureStatus{CandidaturePending, CandidatureAccepted, CandidatureRefused}

func (s CandidatureStatus) Valid() bool {
	for _, known := range CandidatureStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseCandidatureStatus accepts the wire value or pending/accepted/refused
func ParseCandidatureStatus(s string) (CandidatureStatus, bool) {
	switch s {
	case "pending":
		return CandidaturePending, true
	case "accepted":
		return CandidatureAccepted, true
	case "refused":
		return CandidatureRefused, true
	}
	status := CandidatureStatus(s)
	return status, status.Valid()
}

// StudentProfile is the profile a student attaches to applications
type StudentProfile struct {
	Bio   string  `json:"bio" yaml:"bio"`
	CV    *string `json:"cv" yaml:"cv"` // URL of the uploaded CV
	Phone string  `json:"phone" yaml:"phone"`
}

// Candidature represents a student's application to an offer
type Candidature struct {
	ID              int               `json:"id" yaml:"id"`
	Offer           Offer             `json:"offer" yaml:"offer"`
	Student         User              `json:"student" yaml:"student"`
	StudentProfile  *StudentProfile   `json:"student_profile" yaml:"student_profile"`
	DateCandidature time.Time         `json:"date_candidature" yaml:"date_candidature"`
	Status          CandidatureStatus `json:"status" yaml:"status"`
}

// RegisterRequest is the payload of account creation
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// MonthCount is one bucket of a monthly histogram
type MonthCount struct {
	Month string `json:"month" yaml:"month"`
	Count int    `json:"count" yaml:"count"`
}

// TitleCount pairs an offer title with its number of candidacies
type TitleCount struct {
	Title string `json:"title" yaml:"title"`
	Count int    `json:"count" yaml:"count"`
}

// StatusCount pairs a candidacy status with a count
type StatusCount struct {
	Status CandidatureStatus `json:"status" yaml:"status"`
	Count  int               `json:"count" yaml:"count"`
}

// DashboardStats is the aggregate view served to managers and administrators
type DashboardStats struct {
	TotalOffers          int           `json:"total_offers" yaml:"total_offers"`
	PendingOffers        int           `json:"pending_offers" yaml:"pending_offers"`
	ValidatedOffers      int           `json:"validated_offers" yaml:"validated_offers"`
	ClosedOffers         int           `json:"closed_offers" yaml:"closed_offers"`
	RefusedOffers        int           `json:"refused_offers" yaml:"refused_offers"`
	TotalCandidatures    int           `json:"total_candidatures" yaml:"total_candidatures"`
	PendingCandidatures  int           `json:"pending_candidatures" yaml:"pending_candidatures"`
	AcceptedCandidatures int           `json:"accepted_candidatures" yaml:"accepted_candidatures"`
	RefusedCandidatures  int           `json:"refused_candidatures" yaml:"refused_candidatures"`
	CandidaturesByMonth  []MonthCount  `json:"candidatures_by_month" yaml:"candidatures_by_month"`
	OffersByMonth        []MonthCount  `json:"offers_by_month" yaml:"offers_by_month"`
	TopOffers            []TitleCount  `json:"top_offers" yaml:"top_offers"`
	CandidaturesByStatus []StatusCount `json:"candidatures_by_status" yaml:"candidatures_by_status"`
}

// FavoriteToggle is the result of toggling an offer in the favorites list
type FavoriteToggle struct {
	Message    string `json:"message" yaml:"message"`
	IsFavorite bool   `json:"is_favorite" yaml:"is_favorite"`
}
