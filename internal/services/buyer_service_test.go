package services

import (
	"testing"

	"buyerleads/pkg/models"
)

func TestDiffBuyer(t *testing.T) {
	email := "old@example.com"
	buyer := &models.Buyer{
		FullName: "Rohan Mehta",
		Phone:    "9876543210",
		Email:    &email,
		City:     "Chandigarh",
		Status:   "New",
		Tags:     `["hot"]`,
	}

	newEmail := "new@example.com"
	qualified := "Qualified"
	req := models.UpdateBuyerRequest{
		CreateBuyerRequest: models.CreateBuyerRequest{
			FullName: "Rohan Mehta",
			Phone:    "9876543211",
			Email:    &newEmail,
			City:     "Chandigarh",
			Status:   &qualified,
			Tags:     []string{"hot", "nri"},
		},
	}

	diff := diffBuyer(buyer, req)

	if _, ok := diff["fullName"]; ok {
		t.Error("unchanged fullName reported in diff")
	}
	if change, ok := diff["phone"]; !ok || change.Old != "9876543210" || change.New != "9876543211" {
		t.Errorf("phone diff = %+v", change)
	}
	if change, ok := diff["email"]; !ok || change.Old != "old@example.com" || change.New != "new@example.com" {
		t.Errorf("email diff = %+v", change)
	}
	if change, ok := diff["status"]; !ok || change.Old != "New" || change.New != "Qualified" {
		t.Errorf("status diff = %+v", change)
	}
	if _, ok := diff["tags"]; !ok {
		t.Error("changed tags not reported in diff")
	}
	if _, ok := diff["city"]; ok {
		t.Error("unchanged city reported in diff")
	}
}

func TestDiffBuyerNoChanges(t *testing.T) {
	buyer := &models.Buyer{
		FullName: "Asha Verma",
		Phone:    "9876543210",
		City:     "Mohali",
		Status:   "New",
		Tags:     "[]",
	}
	req := models.UpdateBuyerRequest{
		CreateBuyerRequest: models.CreateBuyerRequest{
			FullName: "Asha Verma",
			Phone:    "9876543210",
			City:     "Mohali",
		},
	}

	if diff := diffBuyer(buyer, req); len(diff) != 0 {
		t.Errorf("expected empty diff, got %v", diff)
	}
}
