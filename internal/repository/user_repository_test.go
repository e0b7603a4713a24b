package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"autix_backend/internal/testutil"
	"autix_backend/models"
)

func TestCreateWithProfile_Dealer(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGormUserRepository(db)

	user := &models.User{Email: "d@autix.test", PasswordHash: "x", FirstName: "A", LastName: "B", UserType: models.UserTypeDealer}
	dealer := &models.Dealer{BusinessName: "Steppe Motors", City: "Astana"}
	require.NoError(t, repo.CreateWithProfile(context.Background(), user, dealer, nil))

	got, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Dealer)
	assert.Equal(t, "Steppe Motors", got.Dealer.BusinessName)
	assert.Nil(t, got.Buyer)
}

func TestCreateWithProfile_DuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGormUserRepository(db)
	testutil.CreateBuyer(t, db, "dup@autix.test")

	user := &models.User{Email: "dup@autix.test", PasswordHash: "x", UserType: models.UserTypeBuyer}
	err := repo.CreateWithProfile(context.Background(), user, nil, &models.Buyer{})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateWithProfile_DuplicateEmailOnInsert(t *testing.T) {
	db := testutil.NewDB(t)
	// Another registration for the same email commits between the count
	// and this insert.
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "users" {
			return
		}
		fired = true
		_ = tx.Session(&gorm.Session{NewDB: true}).Create(&models.User{
			Email: "race@autix.test", PasswordHash: "x", FirstName: "A", LastName: "B", UserType: models.UserTypeBuyer,
		}).Error
	})
	require.NoError(t, err)

	repo := NewGormUserRepository(db)
	user := &models.User{Email: "race@autix.test", PasswordHash: "x", FirstName: "C", LastName: "D", UserType: models.UserTypeBuyer}
	err = repo.CreateWithProfile(context.Background(), user, nil, &models.Buyer{})
	assert.True(t, fired)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateWithProfile_RollsBackUserWhenProfileFails(t *testing.T) {
	db := testutil.NewDB(t)
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_dealers", func(tx *gorm.DB) {
		if tx.Statement.Table == "dealers" {
			_ = tx.AddError(errors.New("dealer insert failed"))
		}
	})
	require.NoError(t, err)

	repo := NewGormUserRepository(db)
	user := &models.User{Email: "rollback@autix.test", PasswordHash: "x", UserType: models.UserTypeDealer}
	err = repo.CreateWithProfile(context.Background(), user, &models.Dealer{BusinessName: "Ghost"}, nil)
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "rollback@autix.test").Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateWithProfile_RequiresExactlyOneProfile(t *testing.T) {
	repo := NewGormUserRepository(testutil.NewDB(t))
	user := &models.User{Email: "x@autix.test"}
	assert.Error(t, repo.CreateWithProfile(context.Background(), user, nil, nil))
	assert.Error(t, repo.CreateWithProfile(context.Background(), user, &models.Dealer{}, &models.Buyer{}))
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	u, _ := testutil.CreateDealer(t, db, "d@autix.test")
	repo := NewGormUserRepository(db)

	got, err := repo.UpdateProfile(context.Background(), u.ID,
		map[string]any{"first_name": "Nurlan"},
		map[string]any{"business_name": "Nomad Cars", "city": "Shymkent"},
		nil)
	require.NoError(t, err)
	assert.Equal(t, "Nurlan", got.FirstName)
	assert.Equal(t, "Nomad Cars", got.Dealer.BusinessName)
	assert.Equal(t, "Shymkent", got.Dealer.City)
}
