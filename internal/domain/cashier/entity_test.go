package cashier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPurchase(t *testing.T) {
	assert.True(t, (&Cashier{Role: RoleManager}).CanPurchase())
	assert.False(t, (&Cashier{Role: RoleCashier}).CanPurchase())
}

func TestCashierJSONHidesPINHash(t *testing.T) {
	raw, err := json.Marshal(Cashier{ID: 1, Code: "C001", PINHash: "$2a$secret"})
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"code":"C001"`)
}
