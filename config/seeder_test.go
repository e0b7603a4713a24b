package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autix_backend/internal/testutil"
	"autix_backend/models"
	"autix_backend/utils"
)

func TestSeed_EmbeddedData(t *testing.T) {
	db := testutil.NewDB(t)

	stats, err := Seed(db)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Users)
	assert.Equal(t, 5, stats.Cars)
	assert.Equal(t, 1, stats.CarRequests)

	var prado models.Car
	require.NoError(t, db.Where("model = ?", "Land Cruiser Prado").First(&prado).Error)
	assert.Equal(t, "Toyota", prado.Make)
	assert.Equal(t, "Almaty", prado.City)
	assert.True(t, prado.IsAvailable)

	var buyer models.User
	require.NoError(t, db.Where("email = ?", "buyer@autix.kz").First(&buyer).Error)
	assert.Equal(t, models.UserTypeBuyer, buyer.UserType)
	assert.True(t, utils.CheckPasswordHash("password123", buyer.PasswordHash))
}

func TestSeed_SkipsExistingUsers(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := Seed(db)
	require.NoError(t, err)

	stats, err := Seed(db)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{}, stats)

	var cars int64
	require.NoError(t, db.Model(&models.Car{}).Count(&cars).Error)
	assert.EqualValues(t, 5, cars)
}

func TestSeedFrom_RejectsBadInput(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := SeedFrom(db, []byte("dealers: [oops"))
	assert.Error(t, err)

	_, err = SeedFrom(db, []byte("password: abc\n"))
	assert.ErrorContains(t, err, "too short")
}

func TestResetAndMigrate(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateDealer(t, db, "stale@example.com")

	require.NoError(t, ResetAndMigrate(db))

	var stale int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "stale@example.com").Count(&stale).Error)
	assert.Zero(t, stale)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 3, users)
}
