package inquiry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autix_backend/models"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		from, to models.InquiryStatus
		ok       bool
	}{
		{models.InquiryStatusNew, models.InquiryStatusResponded, true},
		{models.InquiryStatusResponded, models.InquiryStatusClosed, true},
		{models.InquiryStatusNew, models.InquiryStatusClosed, true},
		{models.InquiryStatusClosed, models.InquiryStatusNew, false},
		{models.InquiryStatusClosed, models.InquiryStatusResponded, false},
		{models.InquiryStatusResponded, models.InquiryStatusNew, false},
		{models.InquiryStatusNew, models.InquiryStatusNew, false},
		{models.InquiryStatusResponded, models.InquiryStatusResponded, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			err := Transition(tc.from, tc.to)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestTransition_UnknownStatus(t *testing.T) {
	assert.ErrorIs(t, Transition(models.InquiryStatusNew, "archived"), ErrInvalidStatus)
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t,
		[]models.InquiryStatus{models.InquiryStatusResponded, models.InquiryStatusClosed},
		NextStatuses(models.InquiryStatusNew))
	assert.Empty(t, NextStatuses(models.InquiryStatusClosed))
}

func TestCheckBuyerDelete(t *testing.T) {
	assert.NoError(t, CheckBuyerDelete(models.InquiryStatusNew))
	assert.ErrorIs(t, CheckBuyerDelete(models.InquiryStatusResponded), ErrNotDeletable)
	assert.ErrorIs(t, CheckBuyerDelete(models.InquiryStatusClosed), ErrNotDeletable)
}
