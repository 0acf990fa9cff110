package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/errors"
	"github.com/A-d-1-t-y-a/smart-vechicle-maintenance/services/common/models"
)

func newPartService(repo *memParts) *PartService {
	s := NewPartService(repo, zap.NewNop())
	s.now = fixedClock
	return s
}

func TestCreatePartGeneratesID(t *testing.T) {
	repo := newMemParts()
	svc := newPartService(repo)

	part, err := svc.CreatePart(context.Background(), "u1", &CreatePartRequest{PartName: "Air filter", UnitPrice: 9.99})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(part.PartID, "part-"))
	assert.Equal(t, "u1", part.UserID)
	assert.Equal(t, models.Timestamp(fixedNow), part.CreatedAt)

	stored, err := svc.GetPart(context.Background(), "u1", part.PartID)
	require.NoError(t, err)
	assert.Equal(t, "Air filter", stored.PartName)
}

func TestCreatePartKeepsGivenID(t *testing.T) {
	svc := newPartService(newMemParts())
	part, err := svc.CreatePart(context.Background(), "u1", &CreatePartRequest{PartID: "custom", PartName: "X"})
	require.NoError(t, err)
	assert.Equal(t, "custom", part.PartID)
}

func TestUpdatePartMergesFields(t *testing.T) {
	repo := newMemParts(models.Part{UserID: "u1", PartID: "p1", PartName: "Old", Supplier: "Acme", ReorderThreshold: 3})
	svc := newPartService(repo)

	name := "New"
	threshold := 0
	part, err := svc.UpdatePart(context.Background(), "u1", "p1", &UpdatePartRequest{PartName: &name, ReorderThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, "New", part.PartName)
	assert.Equal(t, "Acme", part.Supplier)
	assert.Equal(t, 0, part.ReorderThreshold)
	assert.Equal(t, "p1", part.PartID)
}

func TestPartsAreScopedToOwner(t *testing.T) {
	repo := newMemParts(models.Part{UserID: "u1", PartID: "p1"})
	svc := newPartService(repo)

	_, err := svc.GetPart(context.Background(), "u2", "p1")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.UpdatePart(context.Background(), "u2", "p1", &UpdatePartRequest{})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListPartsByVehicleModel(t *testing.T) {
	repo := newMemParts(
		models.Part{UserID: "u1", PartID: "a", VehicleModel: "Civic"},
		models.Part{UserID: "u1", PartID: "b", VehicleModel: "Golf"},
		models.Part{UserID: "u2", PartID: "c", VehicleModel: "Civic"},
	)
	svc := newPartService(repo)

	all, err := svc.ListParts(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	civic, err := svc.ListParts(context.Background(), "u1", "Civic")
	require.NoError(t, err)
	require.Len(t, civic, 1)
	assert.Equal(t, "a", civic[0].PartID)
}

func TestDeletePart(t *testing.T) {
	repo := newMemParts(models.Part{UserID: "u1", PartID: "p1"})
	svc := newPartService(repo)

	require.NoError(t, svc.DeletePart(context.Background(), "u1", "p1"))
	_, err := svc.GetPart(context.Background(), "u1", "p1")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
