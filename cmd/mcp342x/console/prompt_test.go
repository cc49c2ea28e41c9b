package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchConstraint(t *testing.T) {
	assert.Equal(t, Yes, matchConstraint("", yesNoConstraints))
	assert.Equal(t, No, matchConstraint(" N ", yesNoConstraints))
	assert.Equal(t, Yes, matchConstraint("maybe", yesNoConstraints))
	assert.Equal(t, "ch2", matchConstraint("CH2", []string{"ch1", "ch2"}))
}
