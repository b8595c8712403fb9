// internal/domain/policy/entity_test.go
package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategoryGeneral))
	assert.True(t, ValidCategory(CategoryHealth))
	assert.True(t, ValidCategory(CategoryLife))

	assert.False(t, ValidCategory("general")) // case sensitive
	assert.False(t, ValidCategory("Motor"))
	assert.False(t, ValidCategory(""))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusActive, StatusPending, StatusLapsed, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}

	assert.False(t, ValidStatus("active"))
	assert.False(t, ValidStatus("Expired"))
	assert.False(t, ValidStatus(""))
}
