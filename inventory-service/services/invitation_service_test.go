package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventra-backend/shared/config"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
)

func newInvitationService(db *gorm.DB) *InvitationService {
	return NewInvitationService(db, &config.Config{MaxOpenInvitations: "50"})
}

func TestCreateInvitation(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	invitee := newOrphanEmployee(t, db)

	invitation, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "join us")
	require.NoError(t, err)

	assert.Equal(t, tn.org.ID, invitation.OrganizationID)
	assert.Equal(t, invitee.ID, invitation.EmployeeID)
	assert.Equal(t, "join us", invitation.Description)
}

func TestCreateInvitationRejectsDuplicate(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	invitee := newOrphanEmployee(t, db)

	_, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "first")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &tn.admin, invitee.ID, "second")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateInvitationEnforcesOpenLimit(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewInvitationService(db, &config.Config{MaxOpenInvitations: "2"})

	for i := 0; i < 2; i++ {
		invitee := newOrphanEmployee(t, db)
		_, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "welcome")
		require.NoError(t, err)
	}

	overflow := newOrphanEmployee(t, db)
	_, err := svc.Create(context.Background(), &tn.admin, overflow.ID, "one too many")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateInvitationUnknownEmployee(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	ghost := newOrphanEmployee(t, db)
	require.NoError(t, db.Delete(&ghost).Error)

	_, err := svc.Create(context.Background(), &tn.admin, ghost.ID, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAcceptInvitationJoinsOrganization(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	invitee := newOrphanEmployee(t, db)
	invitation, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "welcome")
	require.NoError(t, err)

	require.NoError(t, svc.Accept(context.Background(), &invitee, invitation.ID))

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, invitee.ID).Error)
	require.NotNil(t, reloaded.OrganizationID)
	assert.Equal(t, tn.org.ID, *reloaded.OrganizationID)

	// The invitation is consumed by the accept.
	var remaining int64
	require.NoError(t, db.Model(&models.OrganizationInvitation{}).Where("id = ?", invitation.ID).Count(&remaining).Error)
	assert.EqualValues(t, 0, remaining)
}

func TestAcceptInvitationAddressedElsewhereFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	invitee := newOrphanEmployee(t, db)
	bystander := newOrphanEmployee(t, db)

	invitation, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "")
	require.NoError(t, err)

	err = svc.Accept(context.Background(), &bystander, invitation.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestAcceptInvitationWhileInAnotherOrganizationFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := newInvitationService(db)

	// other.employee already belongs to other.org
	invitation, err := svc.Create(context.Background(), &tn.admin, other.employee.ID, "")
	require.NoError(t, err)

	err = svc.Accept(context.Background(), &other.employee, invitation.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestAdminCannotTouchForeignInvitation(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := newInvitationService(db)

	invitee := newOrphanEmployee(t, db)
	invitation, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "")
	require.NoError(t, err)

	err = svc.UpdateAsAdmin(context.Background(), &other.admin, invitation.ID, "hijack")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	err = svc.DeleteAsAdmin(context.Background(), &other.admin, invitation.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestEmployeeDeclinesInvitation(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	invitee := newOrphanEmployee(t, db)
	invitation, err := svc.Create(context.Background(), &tn.admin, invitee.ID, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAsEmployee(context.Background(), &invitee, invitation.ID))

	// Declining leaves the employee unattached.
	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, invitee.ID).Error)
	assert.Nil(t, reloaded.OrganizationID)
}

func TestListInvitations(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newInvitationService(db)

	first := newOrphanEmployee(t, db)
	second := newOrphanEmployee(t, db)

	_, err := svc.Create(context.Background(), &tn.admin, first.ID, "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &tn.admin, second.ID, "")
	require.NoError(t, err)

	forOrg, err := svc.ListForOrganization(context.Background(), &tn.admin)
	require.NoError(t, err)
	assert.Len(t, forOrg, 2)

	forEmployee, err := svc.ListForEmployee(context.Background(), &first)
	require.NoError(t, err)
	require.Len(t, forEmployee, 1)
	assert.Equal(t, tn.org.ID, forEmployee[0].OrganizationID)
}
