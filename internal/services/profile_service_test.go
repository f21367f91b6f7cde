package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

func TestVerifyCTV(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addProfile(t, models.UserRoleCTV, false, 50, models.RankNewbie)
	notes := "ID checked"

	res, err := env.profiles.VerifyCTV(context.Background(), manager.ID, ctv.ID, &dto.VerifyCTVRequest{Notes: &notes})
	require.NoError(t, err)
	assert.True(t, res.Success)

	p := env.profile(t, ctv.ID)
	assert.True(t, p.IsVerified)
	assert.Equal(t, manager.ID, *p.VerifiedBy)
	assert.Equal(t, notes, *p.VerificationNotes)
	require.Len(t, env.publisher.ofType(events.CTVVerified), 1)

	other := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	res, err = env.profiles.VerifyCTV(context.Background(), other.ID, ctv.ID, &dto.VerifyCTVRequest{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "already")
	assert.Equal(t, manager.ID, *env.profile(t, ctv.ID).VerifiedBy)
	assert.Len(t, env.publisher.ofType(events.CTVVerified), 1)

	_, err = env.profiles.VerifyCTV(context.Background(), manager.ID, other.ID, &dto.VerifyCTVRequest{})
	requireAppCode(t, err, apperrors.CodeInvalidOperation)

	_, err = env.profiles.VerifyCTV(context.Background(), manager.ID, "00000000-0000-0000-0000-000000000000", &dto.VerifyCTVRequest{})
	requireAppCode(t, err, apperrors.CodeNotFound)
}

func TestListCTVs_FiltersByVerification(t *testing.T) {
	env := newTestEnv(t)
	env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	env.addProfile(t, models.UserRoleCTV, false, 50, models.RankNewbie)
	env.addProfile(t, models.UserRoleCTV, false, 50, models.RankNewbie)
	env.addCTV(t)

	pending, err := env.profiles.ListCTVs(context.Background(), dto.CTVListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending.Total)

	verified, err := env.profiles.ListCTVs(context.Background(), dto.CTVListQuery{Status: "verified"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), verified.Total)

	all, err := env.profiles.ListCTVs(context.Background(), dto.CTVListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}

func TestProfileSelfService(t *testing.T) {
	env := newTestEnv(t)
	ctv := env.addCTV(t)
	name := "Nguyen Lan"

	p, err := env.profiles.UpdateProfile(context.Background(), ctv.ID, &dto.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, p.FullName)

	_, err = env.profiles.SignAgreement(context.Background(), ctv.ID, &dto.AgreementRequest{})
	requireAppCode(t, err, apperrors.CodeValidationFailed)

	p, err = env.profiles.SignAgreement(context.Background(), ctv.ID, &dto.AgreementRequest{AgreeToTerms: true})
	require.NoError(t, err)
	assert.True(t, p.AgreedToTerms)
	assert.False(t, p.LiabilityWaiverSigned)

	p, err = env.profiles.SignAgreement(context.Background(), ctv.ID, &dto.AgreementRequest{SignLiabilityWaiver: true})
	require.NoError(t, err)
	assert.True(t, p.AgreedToTerms)
	assert.True(t, p.LiabilityWaiverSigned)

	balance, err := env.profiles.GetBalance(context.Background(), ctv.ID, dto.PageQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.Balance)
	assert.Empty(t, balance.Entries)

	address, fullName, err := env.profiles.LookupRecipient(context.Background(), ctv.ID)
	require.NoError(t, err)
	assert.Equal(t, ctv.Email, address)
	assert.Equal(t, name, fullName)
}

func TestUpdateRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.addProfile(t, models.UserRoleAdmin, true, 50, models.RankNewbie)
	ctv := env.addCTV(t)

	p, err := env.profiles.UpdateRole(context.Background(), admin.ID, ctv.ID, &dto.UpdateRoleRequest{Role: models.UserRoleManager})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleManager, p.Role)

	_, err = env.profiles.UpdateRole(context.Background(), admin.ID, admin.ID, &dto.UpdateRoleRequest{Role: models.UserRoleCTV})
	requireAppCode(t, err, apperrors.CodeForbidden)

	users, err := env.profiles.ListUsers(context.Background(), dto.UserListQuery{Role: models.UserRoleManager})
	require.NoError(t, err)
	assert.Equal(t, int64(1), users.Total)
}
