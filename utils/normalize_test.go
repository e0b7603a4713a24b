package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"toyota":            "Toyota",
		"  land   cruiser ": "Land Cruiser",
		"BMW":               "BMW",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), in)
	}
	assert.Nil(t, NormalizeNamePtr(nil))
}
