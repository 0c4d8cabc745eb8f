package pathenc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withLocale(t *testing.T, lang string) func() {
	t.Helper()
	old, had := os.LookupEnv("LC_ALL")
	require.NoError(t, os.Setenv("LC_ALL", lang))
	reset()
	return func() {
		if had {
			_ = os.Setenv("LC_ALL", old)
		} else {
			_ = os.Unsetenv("LC_ALL")
		}
		reset()
	}
}

func TestDetectUTF8Locale(t *testing.T) {
	defer withLocale(t, "en_US.UTF-8")()
	enc, err := Detect()
	require.NoError(t, err)
	assert.NotNil(t, enc)
}

func TestDetectEmptyLocaleDefaultsUTF8(t *testing.T) {
	defer withLocale(t, "")()
	_, err := Detect()
	require.NoError(t, err)
}

func TestDetectUnknownCharsetFails(t *testing.T) {
	defer withLocale(t, "en_US.SHIFT-JIS-9000")()
	_, err := Detect()
	assert.Error(t, err)
}

func TestToUTF8Latin1(t *testing.T) {
	defer withLocale(t, "de_DE.ISO-8859-1")()
	// 0xE9 in ISO-8859-1 is 'é'
	converted, err := ToUTF8(string([]byte{0xE9}))
	require.NoError(t, err)
	assert.Equal(t, "é", converted)
}

func TestToUTF8PassthroughWhenAlreadyValid(t *testing.T) {
	defer withLocale(t, "en_US.UTF-8")()
	converted, err := ToUTF8("héllo/wörld.txt")
	require.NoError(t, err)
	assert.Equal(t, "héllo/wörld.txt", converted)
}

func TestToUTF8FallsBackOnUnknownEncodingIfAlreadyValidUTF8(t *testing.T) {
	defer withLocale(t, "en_US.SHIFT-JIS-9000")()
	converted, err := ToUTF8("plain-ascii.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain-ascii.txt", converted)
}
