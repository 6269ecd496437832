package model

import "time"

// WorkingDays is the provider's availability pattern.
type WorkingDays string

const (
	WorkingWeekdays WorkingDays = "weekdays"
	WorkingWeekends WorkingDays = "weekends"
	WorkingAllDays  WorkingDays = "all"
)

// PreferredTime is the provider's preferred time of day.
type PreferredTime string

const (
	TimeMorning   PreferredTime = "morning"
	TimeAfternoon PreferredTime = "afternoon"
	TimeEvening   PreferredTime = "evening"
	TimeFlexible  PreferredTime = "flexible"
)

// ProviderProfile holds the service details of a provider account. There is
// exactly one per provider User, created in the same transaction.
//
// Optional columns are pointers: nil is stored as NULL and omitted from JSON.
type ProviderProfile struct {
	ID                      int64          `json:"id"`
	UserID                  int64          `json:"userId"`
	YearsOfExperience       *int           `json:"yearsOfExperience,omitempty"`
	ServiceCategoryID       int64          `json:"serviceCategoryId"`
	ServiceSubcategoryID    int64          `json:"serviceSubcategoryId"`
	ServiceDescription      *string        `json:"serviceDescription,omitempty"`
	ServiceAddress          *string        `json:"serviceAddress,omitempty"`
	WorkingDays             *WorkingDays   `json:"workingDays,omitempty"`
	PreferredTime           *PreferredTime `json:"preferredTime,omitempty"`
	ServiceCharge           *string        `json:"serviceCharge,omitempty"`
	ConsultationIncluded    bool           `json:"consultationIncluded"`
	FollowupSupportIncluded bool           `json:"followupSupportIncluded"`
	WarrantyIncluded        bool           `json:"warrantyIncluded"`
	ContactNumber           *string        `json:"contactNumber,omitempty"`
	CreatedAt               time.Time      `json:"createdAt"`

	// Filled by the profile lookup join; empty on insert.
	CategoryName    string `json:"categoryName,omitempty"`
	SubcategoryName string `json:"subcategoryName,omitempty"`
}
