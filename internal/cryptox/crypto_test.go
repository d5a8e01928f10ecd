package cryptox

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_KnownVector(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashPassword([]byte("abc")))
	assert.Len(t, HashPassword(nil), 64)
}

func TestHashEmail_Normalises(t *testing.T) {
	a := HashEmail("Alice@Example.com")
	b := HashEmail("  alice@example.com\n")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashEmail("bob@example.com"))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("pw"), []byte("salt-1"))
	k2 := DeriveKey([]byte("pw"), []byte("salt-1"))
	k3 := DeriveKey([]byte("pw"), []byte("salt-2"))

	if !bytes.Equal(k1, k2) {
		t.Errorf("expected same key for same inputs")
	}
	if bytes.Equal(k1, k3) {
		t.Errorf("expected different keys for different salts")
	}
	assert.Len(t, k1, 32)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	sealed, err := Seal([]byte("see you in 2030"), []byte("hunter2"))
	require.NoError(t, err)

	got, err := Open(sealed, []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "see you in 2030", string(got))
}

func TestSeal_RandomisedOutput(t *testing.T) {
	a, err := Seal([]byte("same"), []byte("pw"))
	require.NoError(t, err)
	b, err := Seal([]byte("same"), []byte("pw"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSeal_SaltTravelsWithCiphertext(t *testing.T) {
	msg := []byte("same")
	a, err := Seal(msg, []byte("pw"))
	require.NoError(t, err)
	b, err := Seal(msg, []byte("pw"))
	require.NoError(t, err)

	rawA, err := base64.StdEncoding.DecodeString(a)
	require.NoError(t, err)
	rawB, err := base64.StdEncoding.DecodeString(b)
	require.NoError(t, err)
	assert.NotEqual(t, rawA[:saltLen], rawB[:saltLen])
	assert.Greater(t, len(rawA), saltLen+nonceLen+len(msg))

	for _, sealed := range []string{a, b} {
		got, err := Open(sealed, []byte("pw"))
		require.NoError(t, err)
		assert.Equal(t, msg, got)
	}
}

func TestOpen_WrongPassword(t *testing.T) {
	sealed, err := Seal([]byte("secret"), []byte("right"))
	require.NoError(t, err)

	_, err = Open(sealed, []byte("wrong"))
	assert.Error(t, err)
}

func TestOpen_Malformed(t *testing.T) {
	_, err := Open("%%%not-base64", []byte("pw"))
	assert.ErrorIs(t, err, ErrMalformedSealed)

	short := base64.StdEncoding.EncodeToString([]byte("tiny"))
	_, err = Open(short, []byte("pw"))
	assert.ErrorIs(t, err, ErrMalformedSealed)
}
