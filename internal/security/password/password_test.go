package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=3,p=1$"))

	assert.True(t, Verify("s3cret-pass", h))
	assert.False(t, Verify("s3cret-pasS", h))
	assert.False(t, NeedsRehash(h))

	h2, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, h, h2, "salt aleatorio")

	_, err = Hash("")
	assert.Error(t, err)
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("s3cret-pass", string(legacy)))
	assert.False(t, Verify("other", string(legacy)))
	assert.True(t, NeedsRehash(string(legacy)))
}

func TestVerify_Garbage(t *testing.T) {
	for _, s := range []string{"", "plain", "$argon2id$v=19$m=1$x$y", "$argon2id$v=19$m=1,t=1,p=1$!!$!!"} {
		assert.False(t, Verify("x", s), s)
	}
}

func TestNeedsRehash_OtherParams(t *testing.T) {
	h, err := HashWith(Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, Verify("s3cret-pass", h))
	assert.True(t, NeedsRehash(h))
}

func TestPolicy(t *testing.T) {
	assert.Empty(t, Staff.Validate("long-enough"))
	assert.Equal(t, []string{"too_short"}, Staff.Validate("short"))
	assert.Contains(t, Staff.Validate("        "), "blank")
	assert.Equal(t, []string{"missing_digit"}, Policy{MinLength: 1, RequireDigit: true}.Validate("abc"))
}
