package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%asha%", ContainsPattern("asha"))
	assert.Equal(t, `%50\% off%`, ContainsPattern("50% off"))
	assert.Equal(t, `%\_%`, ContainsPattern("_"))
	assert.Equal(t, `%C:\\temp%`, ContainsPattern(`C:\temp`))
	assert.Equal(t, "%%", ContainsPattern(""))
}
