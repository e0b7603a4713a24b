package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autix_backend/internal/apperr"
	"autix_backend/internal/testutil"
	"autix_backend/models"
)

func TestAssertOwnsResource_Car(t *testing.T) {
	db := testutil.NewDB(t)
	ownerUser, dealer := testutil.CreateDealer(t, db, "owner@autix.test")
	otherUser, _ := testutil.CreateDealer(t, db, "other@autix.test")
	car := testutil.CreateCar(t, db, dealer.ID, nil)

	c := NewChecker(db)
	ctx := context.Background()

	assert.NoError(t, c.AssertOwnsResource(ctx, ownerUser.ID, car.ID, ResourceCar))

	err := c.AssertOwnsResource(ctx, otherUser.ID, car.ID, ResourceCar)
	assert.True(t, apperr.IsForbidden(err))

	err = c.AssertOwnsResource(ctx, ownerUser.ID, car.ID+100, ResourceCar)
	assert.True(t, apperr.IsNotFound(err))
}

func TestAssertOwnsResource_InquirySides(t *testing.T) {
	db := testutil.NewDB(t)
	dealerUser, dealer := testutil.CreateDealer(t, db, "d@autix.test")
	buyerUser, buyer := testutil.CreateBuyer(t, db, "b@autix.test")

	inq := &models.Inquiry{BuyerID: buyer.ID, DealerID: dealer.ID, Message: "Is it available?", Status: models.InquiryStatusNew}
	require.NoError(t, db.Create(inq).Error)

	c := NewChecker(db)
	ctx := context.Background()

	assert.NoError(t, c.AssertOwnsResource(ctx, buyerUser.ID, inq.ID, ResourceInquiryAsBuyer))
	assert.NoError(t, c.AssertOwnsResource(ctx, dealerUser.ID, inq.ID, ResourceInquiryAsDealer))
	assert.True(t, apperr.IsForbidden(c.AssertOwnsResource(ctx, dealerUser.ID, inq.ID, ResourceInquiryAsBuyer)))
	assert.True(t, apperr.IsForbidden(c.AssertOwnsResource(ctx, buyerUser.ID, inq.ID, ResourceInquiryAsDealer)))

	require.NoError(t, db.Delete(inq).Error)
	assert.True(t, apperr.IsNotFound(c.AssertOwnsResource(ctx, buyerUser.ID, inq.ID, ResourceInquiryAsBuyer)))
}

func TestAssertOwnsResource_CarRequest(t *testing.T) {
	db := testutil.NewDB(t)
	buyerUser, buyer := testutil.CreateBuyer(t, db, "b@autix.test")
	otherUser, _ := testutil.CreateBuyer(t, db, "b2@autix.test")

	req := &models.CarRequest{BuyerID: buyer.ID, Make: "Honda", Status: models.CarRequestStatusActive}
	require.NoError(t, db.Create(req).Error)

	c := NewChecker(db)
	assert.NoError(t, c.AssertOwnsResource(context.Background(), buyerUser.ID, req.ID, ResourceCarRequest))
	assert.True(t, apperr.IsForbidden(c.AssertOwnsResource(context.Background(), otherUser.ID, req.ID, ResourceCarRequest)))
}

func TestResolveCompanionIDs(t *testing.T) {
	db := testutil.NewDB(t)
	dealerUser, dealer := testutil.CreateDealer(t, db, "d@autix.test")
	buyerUser, buyer := testutil.CreateBuyer(t, db, "b@autix.test")
	c := NewChecker(db)
	ctx := context.Background()

	id, err := c.ResolveDealerID(ctx, dealerUser.ID)
	require.NoError(t, err)
	assert.Equal(t, dealer.ID, id)

	id, err = c.ResolveBuyerID(ctx, buyerUser.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.ID, id)

	_, err = c.ResolveDealerID(ctx, buyerUser.ID)
	assert.True(t, apperr.IsForbidden(err))
}

func TestAssertOwnsResource_UnknownType(t *testing.T) {
	db := testutil.NewDB(t)
	err := NewChecker(db).AssertOwnsResource(context.Background(), 1, 1, ResourceType("garage"))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
