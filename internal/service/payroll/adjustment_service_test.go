package payroll

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

func TestCreateAdjustment(t *testing.T) {
	repo := &fakeAdjustmentRepo{}
	svc := NewAdjustmentService(repo)

	resp, err := svc.Create(context.Background(), payroll.CreateAdjustmentRequest{
		EmployeeID:  "emp-1",
		PeriodYear:  2025,
		PeriodMonth: 3,
		Type:        "bonus",
		Amount:      dec("50"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "local", resp.Currency)
	assert.Equal(t, 1, resp.Version)
	require.Len(t, repo.adjustments, 1)
}

func TestCreateAdjustmentValidation(t *testing.T) {
	svc := NewAdjustmentService(&fakeAdjustmentRepo{})

	_, err := svc.Create(context.Background(), payroll.CreateAdjustmentRequest{
		EmployeeID:  "emp-1",
		PeriodYear:  2025,
		PeriodMonth: 13,
		Type:        "gift",
		Amount:      dec("-5"),
	})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestUpdateAdjustmentMergesFields(t *testing.T) {
	label := "Transport"
	repo := &fakeAdjustmentRepo{adjustments: []payroll.Adjustment{
		{ID: "adj-1", EmployeeID: "emp-1", PeriodYear: 2025, PeriodMonth: 3, Type: payroll.AdjustmentTypeBonus, Amount: dec("50"), Currency: "local", Version: 1},
	}}
	svc := NewAdjustmentService(repo)

	amount := dec("75")
	typ := "allowance"
	resp, err := svc.Update(context.Background(), payroll.UpdateAdjustmentRequest{
		ID:      "adj-1",
		Version: 1,
		Amount:  &amount,
		Label:   &label,
		Type:    &typ,
	})
	require.NoError(t, err)

	assert.True(t, resp.Amount.Equal(dec("75")))
	assert.Equal(t, "allowance", resp.Type)
	require.NotNil(t, resp.Label)
	assert.Equal(t, "Transport", *resp.Label)
	assert.Equal(t, 2, resp.Version)

	// Untouched fields survive the merge.
	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, 2025, resp.PeriodYear)
}

func TestUpdateAdjustmentStaleVersion(t *testing.T) {
	repo := &fakeAdjustmentRepo{adjustments: []payroll.Adjustment{
		{ID: "adj-1", EmployeeID: "emp-1", Type: payroll.AdjustmentTypeBonus, Amount: dec("50"), Version: 2},
	}}
	svc := NewAdjustmentService(repo)

	amount := dec("75")
	_, err := svc.Update(context.Background(), payroll.UpdateAdjustmentRequest{
		ID:      "adj-1",
		Version: 1,
		Amount:  &amount,
	})
	assert.ErrorIs(t, err, payroll.ErrStaleVersion)
}

func TestDeleteAdjustment(t *testing.T) {
	repo := &fakeAdjustmentRepo{adjustments: []payroll.Adjustment{
		{ID: "adj-1", EmployeeID: "emp-1", Type: payroll.AdjustmentTypeBonus, Amount: dec("50"), Version: 1},
	}}
	svc := NewAdjustmentService(repo)

	require.NoError(t, svc.Delete(context.Background(), "adj-1", 1))
	assert.Empty(t, repo.adjustments)

	assert.ErrorIs(t, svc.Delete(context.Background(), "adj-1", 1), payroll.ErrAdjustmentNotFound)
}
