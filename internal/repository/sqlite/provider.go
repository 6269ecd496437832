package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sakif/taskmate/internal/apperror"
	"github.com/sakif/taskmate/internal/model"
	"github.com/sakif/taskmate/internal/repository"
)

var _ repository.ProviderRepository = (*DB)(nil)

// CreateProviderProfile inserts profile and sets its ID and CreatedAt. The
// owning user must already exist in the same transaction.
func (s *store) CreateProviderProfile(ctx context.Context, p *model.ProviderProfile) error {
	createdAt := time.Now().UTC()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO provider_profiles (
			user_id, years_of_experience, service_category_id, service_subcategory_id,
			service_description, service_address, working_days, preferred_time,
			service_charge, consultation_included, followup_support_included,
			warranty_included, contact_number, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID,
		nullInt(p.YearsOfExperience),
		p.ServiceCategoryID,
		p.ServiceSubcategoryID,
		nullString(p.ServiceDescription),
		nullString(p.ServiceAddress),
		nullString((*string)(p.WorkingDays)),
		nullString((*string)(p.PreferredTime)),
		nullString(p.ServiceCharge),
		p.ConsultationIncluded,
		p.FollowupSupportIncluded,
		p.WarrantyIncluded,
		nullString(p.ContactNumber),
		createdAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ValidationFailed("serviceCategory", "Invalid service category or subcategory")
		}
		if isUniqueViolation(err) {
			return apperror.Conflict("userId", "Provider profile already exists")
		}
		return fmt.Errorf("sqlite: inserting provider profile for user %d: %w", p.UserID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new provider profile id: %w", err)
	}

	p.ID = id
	p.CreatedAt = createdAt
	return nil
}

// GetProviderProfileByUserID returns the profile owned by userID with the
// category and subcategory names joined in.
// Returns apperror.ErrNotFound if the user has no profile.
func (s *store) GetProviderProfileByUserID(ctx context.Context, userID int64) (*model.ProviderProfile, error) {
	var (
		p                             model.ProviderProfile
		years                         sql.NullInt64
		desc, addr, days, tod, charge sql.NullString
		contact, catName, subName     sql.NullString
	)

	err := s.q.QueryRowContext(ctx,
		`SELECT pp.id, pp.user_id, pp.years_of_experience,
		        pp.service_category_id, pp.service_subcategory_id,
		        pp.service_description, pp.service_address, pp.working_days,
		        pp.preferred_time, pp.service_charge, pp.consultation_included,
		        pp.followup_support_included, pp.warranty_included,
		        pp.contact_number, pp.created_at,
		        sc.name, ssc.name
		 FROM provider_profiles pp
		 LEFT JOIN service_categories sc ON pp.service_category_id = sc.id
		 LEFT JOIN service_subcategories ssc ON pp.service_subcategory_id = ssc.id
		 WHERE pp.user_id = ?`,
		userID,
	).Scan(
		&p.ID, &p.UserID, &years,
		&p.ServiceCategoryID, &p.ServiceSubcategoryID,
		&desc, &addr, &days,
		&tod, &charge, &p.ConsultationIncluded,
		&p.FollowupSupportIncluded, &p.WarrantyIncluded,
		&contact, &p.CreatedAt,
		&catName, &subName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("provider profile for user", strconv.FormatInt(userID, 10))
		}
		return nil, fmt.Errorf("sqlite: getting provider profile for user %d: %w", userID, err)
	}

	if years.Valid {
		y := int(years.Int64)
		p.YearsOfExperience = &y
	}
	p.ServiceDescription = stringPtr(desc)
	p.ServiceAddress = stringPtr(addr)
	if days.Valid {
		d := model.WorkingDays(days.String)
		p.WorkingDays = &d
	}
	if tod.Valid {
		t := model.PreferredTime(tod.String)
		p.PreferredTime = &t
	}
	p.ServiceCharge = stringPtr(charge)
	p.ContactNumber = stringPtr(contact)
	p.CategoryName = catName.String
	p.SubcategoryName = subName.String

	return &p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
