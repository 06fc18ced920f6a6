package services

import (
	"errors"
	"fmt"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"
	"pmajay-api/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStateNotFound       = errors.New("state not found")
	ErrDistrictNotFound    = errors.New("district not found")
	ErrAgencyNotFound      = errors.New("agency not found")
	ErrAgencyNotActive     = errors.New("agency is not active")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidReleaseType  = errors.New("release_type must be 'state' or 'project'")
	ErrProposalRequired    = errors.New("proposal_id is required for project releases")
	ErrVillageCodeRequired = errors.New("village_code is required")
	ErrProposalNotApproved = errors.New("proposal is not approved for fund release")
)

// InsufficientBalanceError is returned when a release exceeds the remaining
// balance at its hop; the computed remaining is reported to the caller.
type InsufficientBalanceError struct {
	Remaining decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("amount exceeds available balance, remaining %s", utils.FormatINR(e.Remaining))
}

// StateBalance summarizes a state's allocation ledger.
type StateBalance struct {
	Allocated decimal.Decimal `json:"allocated"`
	Released  decimal.Decimal `json:"released"`
	Remaining decimal.Decimal `json:"remaining"`
}

// DistrictBalance summarizes a district's cascade position: funds received
// from its state minus funds sent on to agencies and villages.
type DistrictBalance struct {
	Received  decimal.Decimal `json:"received"`
	Sent      decimal.Decimal `json:"sent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// FundService owns the allocation ledger and every hop of the release
// cascade. All balance checks run inside the transaction that records the
// release, holding a row lock on the state/district so concurrent releases
// serialise instead of racing past the check.
type FundService struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewFundService(db *gorm.DB) *FundService {
	if db == nil {
		db = config.DB
	}
	return &FundService{
		db:     db,
		notify: NewNotificationService(db),
	}
}

// lockForUpdate adds FOR UPDATE on drivers that support it. The sqlite test
// driver serialises writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type AllocateInput struct {
	StateID        uint
	StateName      string
	Amount         decimal.Decimal
	Components     []string
	AllocationDate time.Time
	SanctionOrder  string
	OfficerName    string
	OfficerRole    string
	OfficerPhone   *string
	CreatedBy      uint
}

// Allocate records one immutable funding tranche for a state. Tranches are
// additive; the ledger treats their sum as the state's ceiling.
func (s *FundService) Allocate(input AllocateInput) (*models.FundAllocation, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created *models.FundAllocation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		state, err := resolveState(tx, input.StateID, input.StateName)
		if err != nil {
			return err
		}

		date := input.AllocationDate
		if date.IsZero() {
			date = time.Now()
		}

		alloc := models.FundAllocation{
			StateID:        state.StateID,
			Amount:         input.Amount,
			AllocationDate: date,
			SanctionOrder:  input.SanctionOrder,
			OfficerName:    input.OfficerName,
			OfficerRole:    input.OfficerRole,
			OfficerPhone:   input.OfficerPhone,
			CreatedBy:      input.CreatedBy,
		}
		alloc.EncodeComponents(input.Components)

		if err := tx.Create(&alloc).Error; err != nil {
			return err
		}
		created = &alloc

		return s.notify.NotifyStateAdmins(tx, state.StateID, NotificationInput{
			Title:   "Funds Allocated",
			Message: fmt.Sprintf("%s allocated to %s under PM-AJAY, sanction order %s", utils.FormatINR(input.Amount), state.Name, alloc.SanctionOrder),
			Type:    "success",
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// StateBalance sums the state's tranches and state-type releases. Project
// releases draw on proposal ceilings and do not touch this ledger.
func (s *FundService) StateBalance(stateID uint) (*StateBalance, error) {
	return stateBalanceTx(s.db, stateID)
}

func stateBalanceTx(tx *gorm.DB, stateID uint) (*StateBalance, error) {
	var state models.State
	if err := tx.First(&state, "state_id = ?", stateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}

	var allocations []models.FundAllocation
	if err := tx.Where("state_id = ?", stateID).Find(&allocations).Error; err != nil {
		return nil, err
	}
	var releases []models.FundRelease
	if err := tx.Where("state_id = ? AND release_type = ?", stateID, models.ReleaseTypeState).
		Find(&releases).Error; err != nil {
		return nil, err
	}

	balance := &StateBalance{Allocated: decimal.Zero, Released: decimal.Zero}
	for _, a := range allocations {
		balance.Allocated = balance.Allocated.Add(a.Amount)
	}
	for _, r := range releases {
		balance.Released = balance.Released.Add(r.Amount)
	}
	balance.Remaining = balance.Allocated.Sub(balance.Released)
	return balance, nil
}

type StateReleaseInput struct {
	StateID       uint
	StateName     string
	ReleaseType   string
	ProposalID    *uint
	Amount        decimal.Decimal
	SanctionOrder string
	ReleaseDate   time.Time
	BankAccount   *string
	Remarks       *string
	CreatedBy     uint
}

// ReleaseToState records one ministry→state transfer. State releases are
// checked against the state ledger; project releases against the linked
// proposal's allocated amount.
func (s *FundService) ReleaseToState(input StateReleaseInput) (*models.FundRelease, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if input.ReleaseType == "" {
		input.ReleaseType = models.ReleaseTypeState
	}
	if input.ReleaseType != models.ReleaseTypeState && input.ReleaseType != models.ReleaseTypeProject {
		return nil, ErrInvalidReleaseType
	}
	if input.ReleaseType == models.ReleaseTypeProject && input.ProposalID == nil {
		return nil, ErrProposalRequired
	}

	var created *models.FundRelease
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var state models.State
		query := lockForUpdate(tx)
		var err error
		if input.StateID != 0 {
			err = query.First(&state, "state_id = ?", input.StateID).Error
		} else {
			// exact, case-sensitive name match
			err = query.First(&state, "name = ?", input.StateName).Error
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStateNotFound
			}
			return err
		}

		if input.ReleaseType == models.ReleaseTypeProject {
			if err := s.applyProposalRelease(tx, *input.ProposalID, input.Amount); err != nil {
				return err
			}
		} else {
			balance, err := stateBalanceTx(tx, state.StateID)
			if err != nil {
				return err
			}
			if input.Amount.GreaterThan(balance.Remaining) {
				return &InsufficientBalanceError{Remaining: balance.Remaining}
			}
		}

		date := input.ReleaseDate
		if date.IsZero() {
			date = time.Now()
		}

		release := models.FundRelease{
			StateID:       state.StateID,
			ReleaseType:   input.ReleaseType,
			ProposalID:    input.ProposalID,
			Amount:        input.Amount,
			SanctionOrder: input.SanctionOrder,
			ReleaseDate:   date,
			BankAccount:   input.BankAccount,
			Remarks:       input.Remarks,
			CreatedBy:     input.CreatedBy,
		}
		if err := tx.Create(&release).Error; err != nil {
			return err
		}
		created = &release

		return s.notify.NotifyStateAdmins(tx, state.StateID, NotificationInput{
			Title:     "Funds Released",
			Message:   fmt.Sprintf("%s released to %s, sanction order %s", utils.FormatINR(input.Amount), state.Name, release.SanctionOrder),
			Type:      "success",
			ReleaseID: &release.ReleaseID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applyProposalRelease enforces released_amount <= allocated_amount and
// keeps the proposal's running figures current.
func (s *FundService) applyProposalRelease(tx *gorm.DB, proposalID uint, amount decimal.Decimal) error {
	var proposal models.Proposal
	if err := lockForUpdate(tx).First(&proposal, "proposal_id = ?", proposalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProposalNotFound
		}
		return err
	}
	if proposal.Status != models.ProposalApprovedByMinistry {
		return ErrProposalNotApproved
	}

	newReleased := proposal.ReleasedAmount.Add(amount)
	if newReleased.GreaterThan(proposal.AllocatedAmount) {
		return &InsufficientBalanceError{Remaining: proposal.AllocatedAmount.Sub(proposal.ReleasedAmount)}
	}

	return tx.Model(&models.Proposal{}).
		Where("proposal_id = ?", proposalID).
		Updates(map[string]interface{}{
			"released_amount": newReleased,
			"remaining_fund":  proposal.AllocatedAmount.Sub(newReleased),
		}).Error
}

type DistrictReleaseInput struct {
	DistrictID    uint
	Amount        decimal.Decimal
	SanctionOrder string
	ReleaseDate   time.Time
	Remarks       *string
	CreatedBy     uint
}

// ReleaseToDistrict records one state→district transfer, validated against
// the state's cascade position: ministry releases received minus district
// releases already sent.
func (s *FundService) ReleaseToDistrict(input DistrictReleaseInput) (*models.StateFundRelease, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created *models.StateFundRelease
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var district models.District
		if err := tx.First(&district, "district_id = ?", input.DistrictID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDistrictNotFound
			}
			return err
		}

		// lock the owning state row, it is the contended ledger here
		var state models.State
		if err := lockForUpdate(tx).First(&state, "state_id = ?", district.StateID).Error; err != nil {
			return err
		}

		received, err := sumAmounts(tx, &models.FundRelease{}, "state_id = ? AND release_type = ?", state.StateID, models.ReleaseTypeState)
		if err != nil {
			return err
		}
		sent, err := sumAmounts(tx, &models.StateFundRelease{}, "state_id = ?", state.StateID)
		if err != nil {
			return err
		}
		remaining := received.Sub(sent)
		if input.Amount.GreaterThan(remaining) {
			return &InsufficientBalanceError{Remaining: remaining}
		}

		date := input.ReleaseDate
		if date.IsZero() {
			date = time.Now()
		}

		release := models.StateFundRelease{
			StateID:       state.StateID,
			DistrictID:    district.DistrictID,
			Amount:        input.Amount,
			SanctionOrder: input.SanctionOrder,
			ReleaseDate:   date,
			Remarks:       input.Remarks,
			CreatedBy:     input.CreatedBy,
		}
		if err := tx.Create(&release).Error; err != nil {
			return err
		}
		created = &release

		return s.notify.NotifyDistrictAdmins(tx, district.DistrictID, NotificationInput{
			Title:     "Funds Released",
			Message:   fmt.Sprintf("%s released to %s district, sanction order %s", utils.FormatINR(input.Amount), district.Name, release.SanctionOrder),
			Type:      "success",
			ReleaseID: &release.ReleaseID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type AgencyReleaseInput struct {
	DistrictID    uint
	AgencyID      uint
	ProposalID    *uint
	Amount        decimal.Decimal
	SanctionOrder string
	ReleaseDate   time.Time
	Remarks       *string
	CreatedBy     uint
}

// ReleaseToAgency records one district→agency transfer. The district may
// send at most what it has received minus what it has already sent to
// agencies and villages. A linked proposal additionally enforces its own
// allocated ceiling.
func (s *FundService) ReleaseToAgency(input AgencyReleaseInput) (*models.AgencyFundRelease, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var created *models.AgencyFundRelease
	err := s.db.Transaction(func(tx *gorm.DB) error {
		district, err := lockDistrict(tx, input.DistrictID)
		if err != nil {
			return err
		}

		var agency models.ImplementingAgency
		if err := tx.First(&agency, "agency_id = ?", input.AgencyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAgencyNotFound
			}
			return err
		}
		if agency.Status != models.AgencyStatusActive {
			return ErrAgencyNotActive
		}

		balance, err := districtBalanceTx(tx, district.DistrictID)
		if err != nil {
			return err
		}
		if input.Amount.GreaterThan(balance.Remaining) {
			return &InsufficientBalanceError{Remaining: balance.Remaining}
		}

		if input.ProposalID != nil {
			if err := s.applyProposalRelease(tx, *input.ProposalID, input.Amount); err != nil {
				return err
			}
		}

		date := input.ReleaseDate
		if date.IsZero() {
			date = time.Now()
		}

		release := models.AgencyFundRelease{
			DistrictID:    district.DistrictID,
			AgencyID:      agency.AgencyID,
			ProposalID:    input.ProposalID,
			Amount:        input.Amount,
			SanctionOrder: input.SanctionOrder,
			ReleaseDate:   date,
			Remarks:       input.Remarks,
			CreatedBy:     input.CreatedBy,
		}
		if err := tx.Create(&release).Error; err != nil {
			return err
		}
		created = &release

		notice := NotificationInput{
			Title:     "Funds Released",
			Message:   fmt.Sprintf("%s released to %s, sanction order %s", utils.FormatINR(input.Amount), agency.Name, release.SanctionOrder),
			Type:      "success",
			ReleaseID: &release.ReleaseID,
		}
		if agency.UserID != nil {
			return s.notify.NotifyUser(tx, *agency.UserID, notice)
		}
		return s.notify.NotifyDistrictAdmins(tx, district.DistrictID, notice)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type VillageReleaseInput struct {
	DistrictID    uint
	VillageCode   string
	VillageName   string
	Amount        decimal.Decimal
	SanctionOrder string
	ReleaseDate   time.Time
	Remarks       *string
	CreatedBy     uint
}

// ReleaseToVillage records one district→village transfer against the same
// district cascade balance as agency releases.
func (s *FundService) ReleaseToVillage(input VillageReleaseInput) (*models.VillageFundRelease, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if input.VillageCode == "" {
		return nil, ErrVillageCodeRequired
	}

	var created *models.VillageFundRelease
	err := s.db.Transaction(func(tx *gorm.DB) error {
		district, err := lockDistrict(tx, input.DistrictID)
		if err != nil {
			return err
		}

		balance, err := districtBalanceTx(tx, district.DistrictID)
		if err != nil {
			return err
		}
		if input.Amount.GreaterThan(balance.Remaining) {
			return &InsufficientBalanceError{Remaining: balance.Remaining}
		}

		date := input.ReleaseDate
		if date.IsZero() {
			date = time.Now()
		}

		release := models.VillageFundRelease{
			DistrictID:    district.DistrictID,
			VillageCode:   input.VillageCode,
			VillageName:   input.VillageName,
			Amount:        input.Amount,
			SanctionOrder: input.SanctionOrder,
			ReleaseDate:   date,
			Remarks:       input.Remarks,
			CreatedBy:     input.CreatedBy,
		}
		if err := tx.Create(&release).Error; err != nil {
			return err
		}
		created = &release

		return s.notify.NotifyDistrictAdmins(tx, district.DistrictID, NotificationInput{
			Title:     "Funds Released to Village",
			Message:   fmt.Sprintf("%s released to village %s (%s), sanction order %s", utils.FormatINR(input.Amount), input.VillageName, input.VillageCode, release.SanctionOrder),
			Type:      "success",
			ReleaseID: &release.ReleaseID,
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DistrictBalance recomputes the district's cascade position.
func (s *FundService) DistrictBalance(districtID uint) (*DistrictBalance, error) {
	var district models.District
	if err := s.db.First(&district, "district_id = ?", districtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistrictNotFound
		}
		return nil, err
	}
	return districtBalanceTx(s.db, districtID)
}

func districtBalanceTx(tx *gorm.DB, districtID uint) (*DistrictBalance, error) {
	received, err := sumAmounts(tx, &models.StateFundRelease{}, "district_id = ?", districtID)
	if err != nil {
		return nil, err
	}
	sentAgencies, err := sumAmounts(tx, &models.AgencyFundRelease{}, "district_id = ?", districtID)
	if err != nil {
		return nil, err
	}
	sentVillages, err := sumAmounts(tx, &models.VillageFundRelease{}, "district_id = ?", districtID)
	if err != nil {
		return nil, err
	}

	sent := sentAgencies.Add(sentVillages)
	return &DistrictBalance{
		Received:  received,
		Sent:      sent,
		Remaining: received.Sub(sent),
	}, nil
}

func lockDistrict(tx *gorm.DB, districtID uint) (*models.District, error) {
	var district models.District
	if err := lockForUpdate(tx).First(&district, "district_id = ?", districtID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistrictNotFound
		}
		return nil, err
	}
	return &district, nil
}

func resolveState(tx *gorm.DB, stateID uint, stateName string) (*models.State, error) {
	var state models.State
	var err error
	if stateID != 0 {
		err = tx.First(&state, "state_id = ?", stateID).Error
	} else {
		err = tx.First(&state, "name = ?", stateName).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStateNotFound
		}
		return nil, err
	}
	return &state, nil
}

// sumAmounts loads the matching rows' amounts and sums them in application
// code, which keeps decimal arithmetic identical on every driver.
func sumAmounts(tx *gorm.DB, model interface{}, cond string, args ...interface{}) (decimal.Decimal, error) {
	var rows []struct {
		Amount decimal.Decimal `gorm:"column:amount"`
	}
	if err := tx.Model(model).Select("amount").Where(cond, args...).Find(&rows).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total, nil
}
