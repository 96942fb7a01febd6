package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymops/internal/dto"
	"gymops/internal/model"
)

func newMemberHarness() (MemberService, *fakeMemberRepo, *fakeInscriptionRepo) {
	memberRepo := newFakeMemberRepo()
	inscRepo := newFakeInscriptionRepo()
	return NewMemberService(memberRepo, inscRepo), memberRepo, inscRepo
}

func TestCreateMember(t *testing.T) {
	svc, _, _ := newMemberHarness()

	birth := "1994-06-02"
	resp, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName:      "Carla",
		LastName:       "Mendoza",
		DocumentNumber: "5523311",
		BirthDate:      &birth,
	})
	require.NoError(t, err)

	assert.Equal(t, "Carla", resp.FirstName)
	assert.Equal(t, "5523311", resp.DocumentNumber)
	assert.True(t, resp.Active)
}

func TestCreateMemberDuplicateDocument(t *testing.T) {
	svc, _, _ := newMemberHarness()

	first, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName: "Carla", LastName: "Mendoza", DocumentNumber: "5523311",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName: "Someone", LastName: "Else", DocumentNumber: "5523311",
	})
	var dup *DuplicateMemberError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.Existing.ID.String())
}

func TestRecreateAfterDeactivation(t *testing.T) {
	svc, _, _ := newMemberHarness()

	first, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName: "Carla", LastName: "Mendoza", DocumentNumber: "5523311",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), uuid.MustParse(first.ID)))

	// A deactivated member frees the document number for re-registration.
	_, err = svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName: "Carla", LastName: "Mendoza", DocumentNumber: "5523311",
	})
	assert.NoError(t, err)
}

func TestUpdateMemberPartial(t *testing.T) {
	svc, _, _ := newMemberHarness()

	created, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName: "Carla", LastName: "Mendoza", DocumentNumber: "5523311",
	})
	require.NoError(t, err)

	phone := "+59171234567"
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateMemberRequest{Phone: &phone})
	require.NoError(t, err)

	assert.Equal(t, "Carla", updated.FirstName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestMemberNotFound(t *testing.T) {
	svc, _, _ := newMemberHarness()

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Deactivate(context.Background(), uuid.New()), ErrNotFound)
}

func TestMemberInscriptions(t *testing.T) {
	svc, _, inscRepo := newMemberHarness()

	created, err := svc.Create(context.Background(), dto.CreateMemberRequest{
		FirstName: "Carla", LastName: "Mendoza", DocumentNumber: "5523311",
	})
	require.NoError(t, err)
	memberID := uuid.MustParse(created.ID)

	insc := &model.Inscription{
		MemberID:        memberID,
		ServiceID:       uuid.New(),
		BranchID:        uuid.New(),
		SaleID:          uuid.New(),
		StartDate:       testNow,
		ExpiryDate:      testNow.AddDate(0, 1, 0),
		RemainingVisits: 12,
		Status:          model.InscriptionActive,
		Service:         &model.Service{Name: "Personal Training x12"},
	}
	require.NoError(t, inscRepo.CreateTx(nil, insc))

	got, err := svc.Inscriptions(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Personal Training x12", got[0].Service)
	assert.Equal(t, 12, got[0].RemainingVisits)
	assert.Equal(t, model.InscriptionActive, got[0].Status)
}
