package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrUCNotFound           = errors.New("utilization certificate not found")
	ErrDuplicateUC          = errors.New("a certificate for this district and financial year already exists")
	ErrUCAlreadyProcessed   = errors.New("certificate has already been verified or rejected")
	ErrInvalidUCStatus      = errors.New("status must be 'Verified' or 'Rejected'")
	ErrInvalidFinancialYear = errors.New("financial year must be in YYYY-YY form")
	ErrNegativeAmount       = errors.New("amounts must not be negative")
)

// UCService handles utilization certificate submission and the one-shot
// state verification step.
type UCService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewUCService(db *gorm.DB) *UCService {
	if db == nil {
		db = config.DB
	}
	return &UCService{
		db:     db,
		notify: NewNotificationService(db),
	}
}

type SubmitUCInput struct {
	DistrictID    uint
	FinancialYear string
	FundReleased  decimal.Decimal
	FundUtilized  decimal.Decimal
	DocumentURL   string
	CreatedBy     uint
}

// Submit files a certificate in Pending Verification and notifies the owning
// state with the computed utilization percentage. Over-utilization is
// accepted here; flagging it is what verification is for.
func (s *UCService) Submit(input SubmitUCInput) (*models.UCSubmission, error) {
	if !utils.ValidateFinancialYear(input.FinancialYear) {
		return nil, ErrInvalidFinancialYear
	}
	if input.FundReleased.IsNegative() || input.FundUtilized.IsNegative() {
		return nil, ErrNegativeAmount
	}

	var created *models.UCSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var district models.District
		if err := tx.First(&district, "district_id = ?", input.DistrictID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDistrictNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.UCSubmission{}).
			Where("district_id = ? AND financial_year = ?", input.DistrictID, input.FinancialYear).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUC
		}

		uc := models.UCSubmission{
			DistrictID:    district.DistrictID,
			FinancialYear: input.FinancialYear,
			FundReleased:  input.FundReleased,
			FundUtilized:  input.FundUtilized,
			DocumentURL:   input.DocumentURL,
			Status:        models.UCPending,
			CreatedBy:     input.CreatedBy,
		}
		if err := tx.Create(&uc).Error; err != nil {
			return err
		}
		created = &uc

		return s.notify.NotifyStateAdmins(tx, district.StateID, NotificationInput{
			Title:   "UC Submitted",
			Message: fmt.Sprintf("%s district submitted a UC for %s: %s utilized of %s released (%s%% utilization)", district.Name, uc.FinancialYear, utils.FormatINR(uc.FundUtilized), utils.FormatINR(uc.FundReleased), uc.UtilizationPercent()),
			Type:    "info",
			UCID:    &uc.UCID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Verify applies the one-shot terminal transition. Only a pending
// certificate can be verified or rejected.
func (s *UCService) Verify(ucID uint, status, remarks string, verifierID uint) (*models.UCSubmission, error) {
	if status != models.UCVerified && status != models.UCRejected {
		return nil, ErrInvalidUCStatus
	}

	var updated *models.UCSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var uc models.UCSubmission
		if err := lockForUpdate(tx).Preload("District").
			First(&uc, "uc_id = ?", ucID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUCNotFound
			}
			return err
		}
		if uc.Status != models.UCPending {
			return ErrUCAlreadyProcessed
		}

		now := time.Now()
		uc.Status = status
		uc.VerifiedBy = &verifierID
		uc.VerifiedAt = &now
		if remarks != "" {
			uc.Remarks = &remarks
		}
		if err := tx.Save(&uc).Error; err != nil {
			return err
		}
		updated = &uc

		notice := NotificationInput{
			Title:   "UC " + status,
			Message: fmt.Sprintf("Your UC for %s was %s", uc.FinancialYear, strings.ToLower(status)),
			Type:    "success",
			UCID:    &uc.UCID,
		}
		if status == models.UCRejected {
			notice.Type = "error"
			if remarks != "" {
				notice.Message += ": " + remarks
			}
		}
		return s.notify.NotifyDistrictAdmins(tx, uc.DistrictID, notice)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
