package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/telephony-tools/sipschema/provision"
)

func TestStatusError(t *testing.T) {
	assert.NoError(t, statusError("create", provision.StatusOK))

	err := statusError("create", provision.StatusExists)
	assert.ErrorContains(t, err, "nothing done")
	assert.NotContains(t, err.Error(), "already exists",
		"status -2 also covers a missing migration source")

	err = statusError("migrate", provision.StatusExists)
	assert.ErrorContains(t, err, "nothing done")

	err = statusError("migrate", provision.StatusError)
	assert.ErrorContains(t, err, "migrate failed")
}
