package services

import (
	"fmt"
	"testing"
	"time"

	"pmajay-api/config"
	"pmajay-api/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database. shared cache keeps gorm's
// pool connections on the same database instead of each getting a fresh
// empty one.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, config.RunMigrations(db))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedState(t *testing.T, db *gorm.DB, name string) models.State {
	t.Helper()
	state := models.State{Name: name}
	require.NoError(t, db.Create(&state).Error)
	return state
}

func seedDistrict(t *testing.T, db *gorm.DB, stateID uint, name string) models.District {
	t.Helper()
	district := models.District{StateID: stateID, Name: name}
	require.NoError(t, db.Create(&district).Error)
	return district
}

func seedAgency(t *testing.T, db *gorm.DB, stateID uint, districtID *uint, status string) models.ImplementingAgency {
	t.Helper()
	agency := models.ImplementingAgency{
		Name:         fmt.Sprintf("Agency %d", time.Now().UnixNano()),
		AgencyType:   models.AgencyImplementing,
		ContactName:  "Contact Person",
		ContactEmail: fmt.Sprintf("agency%d@example.org", time.Now().UnixNano()),
		StateID:      stateID,
		DistrictID:   districtID,
		Status:       status,
	}
	require.NoError(t, db.Create(&agency).Error)
	return agency
}

func seedUser(t *testing.T, db *gorm.DB, roleID int, mutate func(*models.User)) models.User {
	t.Helper()
	user := models.User{
		FullName: "Test User",
		Email:    fmt.Sprintf("user%d@example.org", time.Now().UnixNano()),
		Password: "not-a-real-hash",
		RoleID:   roleID,
		IsActive: true,
	}
	if mutate != nil {
		mutate(&user)
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedStateAdmin(t *testing.T, db *gorm.DB, stateID uint) models.User {
	return seedUser(t, db, models.RoleState, func(u *models.User) {
		u.StateID = &stateID
	})
}

func seedDistrictAdmin(t *testing.T, db *gorm.DB, stateID, districtID uint) models.User {
	return seedUser(t, db, models.RoleDistrict, func(u *models.User) {
		u.StateID = &stateID
		u.DistrictID = &districtID
	})
}

func seedAllocation(t *testing.T, db *gorm.DB, svc *FundService, stateID uint, amount string) *models.FundAllocation {
	t.Helper()
	allocation, err := svc.Allocate(AllocateInput{
		StateID:        stateID,
		Amount:         dec(amount),
		AllocationDate: time.Now(),
		SanctionOrder:  "SO/TEST/001",
		OfficerName:    "Allocation Officer",
		CreatedBy:      1,
	})
	require.NoError(t, err)
	return allocation
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var rows []models.Notification
	require.NoError(t, db.Where("user_id = ?", userID).Order("notification_id ASC").Find(&rows).Error)
	return rows
}
