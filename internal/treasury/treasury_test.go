package treasury

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreasuryTransfer(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Credit("alice", sdkmath.NewInt(100)))

	require.NoError(t, tr.Transfer("alice", "bob", sdkmath.NewInt(40)))
	assert.Equal(t, sdkmath.NewInt(60), tr.BalanceOf("alice"))
	assert.Equal(t, sdkmath.NewInt(40), tr.BalanceOf("bob"))

	// Overdraft fails without moving anything.
	err := tr.Transfer("alice", "bob", sdkmath.NewInt(61))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, sdkmath.NewInt(60), tr.BalanceOf("alice"))

	// Transfers of zero are legal.
	require.NoError(t, tr.Transfer("alice", "bob", sdkmath.ZeroInt()))
}

func TestTreasuryTransferValidation(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Credit("alice", sdkmath.NewInt(100)))

	assert.ErrorIs(t, tr.Transfer("", "bob", sdkmath.NewInt(1)), ErrInvalidAccount)
	assert.ErrorIs(t, tr.Transfer("alice", "", sdkmath.NewInt(1)), ErrInvalidAccount)
	assert.ErrorIs(t, tr.Transfer("alice", "alice", sdkmath.NewInt(1)), ErrInvalidTransfer)
	assert.ErrorIs(t, tr.Transfer("alice", "bob", sdkmath.NewInt(-1)), ErrInvalidTransfer)
}

func TestTreasuryCredit(t *testing.T) {
	tr := New()

	assert.Equal(t, sdkmath.ZeroInt(), tr.BalanceOf("nobody"))

	require.NoError(t, tr.Credit("alice", sdkmath.NewInt(5)))
	require.NoError(t, tr.Credit("alice", sdkmath.NewInt(7)))
	assert.Equal(t, sdkmath.NewInt(12), tr.BalanceOf("alice"))

	assert.ErrorIs(t, tr.Credit("", sdkmath.NewInt(1)), ErrInvalidAccount)
	assert.ErrorIs(t, tr.Credit("alice", sdkmath.NewInt(-1)), ErrInvalidTransfer)
}

func TestTreasuryAccounts(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Credit("charlie", sdkmath.NewInt(1)))
	require.NoError(t, tr.Credit("alice", sdkmath.NewInt(1)))
	require.NoError(t, tr.Credit("bob", sdkmath.NewInt(1)))

	assert.Equal(t, []string{"alice", "bob", "charlie"}, tr.Accounts())
}
