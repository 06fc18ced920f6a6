package services

import (
	"pmajay-api/config"
	"pmajay-api/models"

	"gorm.io/gorm"
)

// NotificationService writes outbox rows. Enqueue always runs on the
// caller's transaction so a notification intent is committed atomically with
// the business write that caused it; delivery happens later in the
// dispatcher and can never fail the caller.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

type NotificationInput struct {
	Title      string
	Message    string
	Type       string // info|success|warning|error
	ProposalID *uint
	ReleaseID  *uint
	UCID       *uint
}

// Enqueue writes one pending outbox row per user, choosing the delivery
// channel from the user's profile: WhatsApp when a phone is registered,
// push when only a device token is, email as the next fallback, plain
// in-app otherwise.
func (s *NotificationService) Enqueue(tx *gorm.DB, users []models.User, input NotificationInput) error {
	if tx == nil {
		tx = s.db
	}
	if input.Type == "" {
		input.Type = "info"
	}

	for i := range users {
		user := users[i]
		channel, recipient := channelFor(&user)

		n := models.Notification{
			UserID:            &user.UserID,
			Channel:           channel,
			Recipient:         recipient,
			Title:             input.Title,
			Message:           input.Message,
			Type:              input.Type,
			RelatedProposalID: input.ProposalID,
			RelatedReleaseID:  input.ReleaseID,
			RelatedUCID:       input.UCID,
			DeliveryStatus:    models.DeliveryPending,
		}
		if err := tx.Create(&n).Error; err != nil {
			return err
		}
	}
	return nil
}

func channelFor(user *models.User) (channel, recipient string) {
	switch {
	case user.Phone != nil && *user.Phone != "":
		return models.ChannelWhatsApp, *user.Phone
	case user.PushToken != nil && *user.PushToken != "":
		return models.ChannelPush, *user.PushToken
	case user.Email != "":
		return models.ChannelEmail, user.Email
	default:
		return models.ChannelInApp, ""
	}
}

// NotifyStateAdmins enqueues for every active state admin of the state.
func (s *NotificationService) NotifyStateAdmins(tx *gorm.DB, stateID uint, input NotificationInput) error {
	return s.notifyScoped(tx, "role_id = ? AND state_id = ?", []interface{}{models.RoleState, stateID}, input)
}

// NotifyDistrictAdmins enqueues for every active district admin of the district.
func (s *NotificationService) NotifyDistrictAdmins(tx *gorm.DB, districtID uint, input NotificationInput) error {
	return s.notifyScoped(tx, "role_id = ? AND district_id = ?", []interface{}{models.RoleDistrict, districtID}, input)
}

// NotifyMinistryAdmins enqueues for every active ministry admin.
func (s *NotificationService) NotifyMinistryAdmins(tx *gorm.DB, input NotificationInput) error {
	return s.notifyScoped(tx, "role_id = ?", []interface{}{models.RoleMinistry}, input)
}

// NotifyUser enqueues for one user.
func (s *NotificationService) NotifyUser(tx *gorm.DB, userID uint, input NotificationInput) error {
	if tx == nil {
		tx = s.db
	}
	var user models.User
	if err := tx.Where("user_id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	return s.Enqueue(tx, []models.User{user}, input)
}

func (s *NotificationService) notifyScoped(tx *gorm.DB, cond string, args []interface{}, input NotificationInput) error {
	if tx == nil {
		tx = s.db
	}
	var users []models.User
	if err := tx.Where(cond, args...).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Find(&users).Error; err != nil {
		return err
	}
	return s.Enqueue(tx, users, input)
}
