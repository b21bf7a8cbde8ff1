package precompile

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestEcrecoverVector(t *testing.T) {
	input := mustHex(t, "9161131deff2aea942dd43fbce9eb5b409b21670953e583fa10499dc52db57e3"+
		"000000000000000000000000000000000000000000000000000000000000001b"+
		"ae2054dc5b25097032a64cdda29eb1da01a75ac4297249623bed59a44e91ae4b"+
		"418e411747af2cd5e7e4a2ba2ed86b1d67ab8dccba4fc2adeab18ad66d8551d7")
	c := ecrecoverContract{}
	out, err := c.Run(input)
	require.NoError(t, err)
	require.Equal(t, uint64(3000), c.RequiredGas(input))
	require.Equal(t, "000000000000000000000000a040a4e812306d66746508bcfbe84b3e73de67fa", hex.EncodeToString(out))
}

func TestEcrecoverRejectsBadV(t *testing.T) {
	c := ecrecoverContract{}
	input := make([]byte, 128)
	input[63] = 26 // invalid v
	out, err := c.Run(input)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestEcrecoverRejectsNonZeroVPadding(t *testing.T) {
	c := ecrecoverContract{}
	input := make([]byte, 128)
	input[32] = 1 // input[32..63] must all be zero
	input[63] = 27
	out, err := c.Run(input)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestRipemd160Vector(t *testing.T) {
	input := mustHex(t, "099538be21d9ee24d052fb9bdc46307416b983d076f3bf04ccbe120ed514ca7"+
		"589c83b3859bb92919a9d1006fbe59aeac6154321ab0ba37d3490a8c90000")
	c := ripemd160Contract{}
	out, err := c.Run(input)
	require.NoError(t, err)
	require.Equal(t, "0000000000000000000000006b0f28fb610ce4d01c1d210a6aeb3967bf7bf0f7", hex.EncodeToString(out))
	require.Equal(t, uint64(600+120*2), c.RequiredGas(input)) // 62 bytes -> ceil(62/32)=2
}

func TestModExpGasFloor(t *testing.T) {
	c := &modexpContract{}
	input := mustHex(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000020"+
			"05ec467b88826aba4537602d514425f3b0bdf467bbf302458337c45f6021e539"+
			"0f"+
			"0800000000000011000000000000000000000000000000000000000000000001")
	require.Equal(t, uint64(200), c.RequiredGas(input))
	out, err := c.Run(input)
	require.NoError(t, err)
	require.Equal(t, "05c3ed0c6f6ac6dd647c9ba3e4721c1eb14011ea3d174c52d7981c5b8145aa75", hex.EncodeToString(out))
}

func TestModExpZeroModulus(t *testing.T) {
	c := &modexpContract{}
	var input [96]byte
	input[31] = 1 // base_len=1
	input[63] = 1 // exp_len=1
	input[95] = 4 // mod_len=4
	full := append(input[:], 0x02, 0x02, 0x00, 0x00, 0x00, 0x00)
	out, err := c.Run(full)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 4), out)
}

func TestModExpLengthCap(t *testing.T) {
	c := &modexpContract{lengthLimit: 32}
	var input [96]byte
	input[31] = 33 // base_len = 33 > cap
	_, err := c.Run(input[:])
	require.Error(t, err)
}

func TestBlake2FRejectsBadLength(t *testing.T) {
	c := blake2FContract{}
	_, err := c.Run(nil)
	require.EqualError(t, err, "Invalid input for blake2f precompile: incorrect length")
}

func TestBlake2FRejectsBadFlag(t *testing.T) {
	c := blake2FContract{}
	input := make([]byte, 213)
	input[212] = 2
	_, err := c.Run(input)
	require.EqualError(t, err, "Invalid input for blake2f precompile: incorrect final flag")
}

func TestBn256PairingEmptyInput(t *testing.T) {
	c := &bn256PairingContract{}
	out, err := c.Run(nil)
	require.NoError(t, err)
	expect := make([]byte, 32)
	expect[31] = 1
	require.Equal(t, expect, out)
}

func TestBn256PairingBadLength(t *testing.T) {
	c := &bn256PairingContract{}
	_, err := c.Run(make([]byte, 10))
	require.Error(t, err)
}

func TestBn256PairingMaxPairsExceeded(t *testing.T) {
	c := &bn256PairingContract{maxPairs: 1}
	_, err := c.Run(make([]byte, pairElementLen*2))
	require.Error(t, err)
}

func TestRestrictedProfileDisablesIndices(t *testing.T) {
	r := Restricted()
	for _, idx := range []byte{2, 3, 9} {
		c, ok := r.Lookup(Address(idx))
		require.True(t, ok)
		require.Equal(t, uint64(1_000_000_000), c.RequiredGas(nil))
		_, err := c.Run(nil)
		require.ErrorIs(t, err, ErrDisabled)
	}
}

func TestBerlinProfileHasAllNine(t *testing.T) {
	r := Berlin()
	require.Len(t, r.Addresses(), 9)
}

func TestRegistryRunChargesGasBeforeExecuting(t *testing.T) {
	r := Berlin()
	var charged uint64
	_, err := r.Run(Address(1), make([]byte, 128), func(g uint64) error {
		charged = g
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, uint64(3000), charged)
}

type spyContract struct{ ran *bool }

func (spyContract) RequiredGas([]byte) uint64 { return 3000 }
func (s spyContract) Run([]byte) ([]byte, error) {
	*s.ran = true
	return nil, nil
}

func TestRegistryRunStopsOnGasFailure(t *testing.T) {
	r := newRegistry()
	ran := false
	r.set(1, spyContract{ran: &ran})
	_, err := r.Run(Address(1), nil, func(uint64) error { return inputError("out of gas") })
	require.Error(t, err)
	require.False(t, ran)
}

func TestRegistryUnknownAddress(t *testing.T) {
	r := Berlin()
	_, err := r.Run(Address(42), nil, func(uint64) error { return nil })
	require.ErrorIs(t, err, ErrNotSupported)
}
