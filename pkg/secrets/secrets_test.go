package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "orgdesk/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("Passw0rd!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)

	require.NoError(t, Verify("Passw0rd!", hash))

	err = Verify("wrong", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestHash_RejectsEmptyAndTooLong(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = HashWithCost(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestNumericCode(t *testing.T) {
	code, err := NumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	_, err = NumericCode(0)
	assert.Error(t, err)
}

func TestGenerate_Unique(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
