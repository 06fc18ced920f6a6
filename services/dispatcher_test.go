package services

import (
	"errors"
	"testing"

	"pmajay-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPendingDeliversByChannel(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Uttarakhand")

	phone := "+919000000001"
	token := "ExponentPushToken[abc]"
	whatsappUser := seedUser(t, db, models.RoleState, func(u *models.User) {
		u.StateID = &state.StateID
		u.Phone = &phone
	})
	pushUser := seedUser(t, db, models.RoleState, func(u *models.User) {
		u.StateID = &state.StateID
		u.PushToken = &token
	})
	emailUser := seedStateAdmin(t, db, state.StateID)

	notify := NewNotificationService(db)
	require.NoError(t, notify.NotifyStateAdmins(nil, state.StateID, NotificationInput{
		Title:   "Test",
		Message: "hello",
	}))

	var whatsapps, pushes, emails []string
	d := &Dispatcher{
		db:          db,
		batchSize:   20,
		maxAttempts: 3,
		sendWhatsApp: func(phone, title, message string) error {
			whatsapps = append(whatsapps, phone)
			return nil
		},
		sendPush: func(token, title, message string) error {
			pushes = append(pushes, token)
			return nil
		},
		sendEmail: func(to []string, subject, html string) error {
			emails = append(emails, to[0])
			return nil
		},
	}

	attempted := d.DispatchPending()
	assert.Equal(t, 3, attempted)
	assert.Equal(t, []string{phone}, whatsapps)
	assert.Equal(t, []string{token}, pushes)
	assert.Equal(t, []string{emailUser.Email}, emails)

	for _, userID := range []uint{whatsappUser.UserID, pushUser.UserID, emailUser.UserID} {
		rows := notificationsFor(t, db, userID)
		require.Len(t, rows, 1)
		assert.Equal(t, models.DeliverySent, rows[0].DeliveryStatus)
		assert.NotNil(t, rows[0].SentAt)
		assert.Equal(t, 1, rows[0].Attempts)
	}

	// nothing left pending
	assert.Equal(t, 0, d.DispatchPending())
}

func TestDispatchRetriesUpToMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Himachal Pradesh")
	phone := "+919000000002"
	admin := seedUser(t, db, models.RoleState, func(u *models.User) {
		u.StateID = &state.StateID
		u.Phone = &phone
	})

	require.NoError(t, NewNotificationService(db).NotifyStateAdmins(nil, state.StateID, NotificationInput{
		Title:   "Flaky",
		Message: "will fail",
	}))

	calls := 0
	d := &Dispatcher{
		db:          db,
		batchSize:   20,
		maxAttempts: 3,
		sendWhatsApp: func(phone, title, message string) error {
			calls++
			return errors.New("gateway timeout")
		},
	}

	for i := 0; i < 5; i++ {
		d.DispatchPending()
	}

	assert.Equal(t, 3, calls, "delivery stops after maxAttempts")

	rows := notificationsFor(t, db, admin.UserID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.DeliveryFailed, rows[0].DeliveryStatus)
	assert.Equal(t, 3, rows[0].Attempts)
	require.NotNil(t, rows[0].LastError)
	assert.Contains(t, *rows[0].LastError, "gateway timeout")
}

func TestInAppNotificationsAreSentImmediately(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Meghalaya")
	// no phone, no token, no email: in-app only
	admin := seedUser(t, db, models.RoleState, func(u *models.User) {
		u.StateID = &state.StateID
		u.Email = ""
	})

	require.NoError(t, NewNotificationService(db).NotifyStateAdmins(nil, state.StateID, NotificationInput{
		Title:   "In App",
		Message: "no external delivery",
	}))

	d := &Dispatcher{db: db, batchSize: 20, maxAttempts: 3}
	d.DispatchPending()

	rows := notificationsFor(t, db, admin.UserID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ChannelInApp, rows[0].Channel)
	assert.Equal(t, models.DeliverySent, rows[0].DeliveryStatus)
}

func TestChannelSelectionPrefersWhatsApp(t *testing.T) {
	phone := "+919876543210"
	token := "ExponentPushToken[zzz]"

	channel, recipient := channelFor(&models.User{Phone: &phone, PushToken: &token, Email: "x@y.z"})
	assert.Equal(t, models.ChannelWhatsApp, channel)
	assert.Equal(t, phone, recipient)

	channel, recipient = channelFor(&models.User{PushToken: &token, Email: "x@y.z"})
	assert.Equal(t, models.ChannelPush, channel)
	assert.Equal(t, token, recipient)

	channel, recipient = channelFor(&models.User{Email: "x@y.z"})
	assert.Equal(t, models.ChannelEmail, channel)
	assert.Equal(t, "x@y.z", recipient)

	channel, _ = channelFor(&models.User{})
	assert.Equal(t, models.ChannelInApp, channel)
}

func TestInactiveUsersAreNotNotified(t *testing.T) {
	db := newTestDB(t)
	state := seedState(t, db, "Arunachal Pradesh")
	inactive := seedUser(t, db, models.RoleState, func(u *models.User) {
		u.StateID = &state.StateID
	})
	// the column defaults to true, flip it after the insert
	require.NoError(t, db.Model(&models.User{}).
		Where("user_id = ?", inactive.UserID).
		Update("is_active", false).Error)

	require.NoError(t, NewNotificationService(db).NotifyStateAdmins(nil, state.StateID, NotificationInput{
		Title:   "Test",
		Message: "hello",
	}))

	assert.Empty(t, notificationsFor(t, db, inactive.UserID))
}
