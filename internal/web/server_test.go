package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativevault/nvm/internal/strategy"
	"github.com/nativevault/nvm/internal/treasury"
	"github.com/nativevault/nvm/internal/vault"
)

func newTestServer(t *testing.T) (*WebServer, *vault.Vault, *treasury.Treasury) {
	t.Helper()

	bank := treasury.New()
	require.NoError(t, bank.Credit("alice", sdkmath.NewInt(10_000)))

	v, err := vault.New(vault.Config{
		Bank:    bank,
		Account: "vault",
		Parameters: vault.Parameters{
			VaultCap:       sdkmath.ZeroInt(),
			WithdrawFeeBps: 100,
			FeeRecipient:   "fees",
		},
	})
	require.NoError(t, err)

	park, err := strategy.NewHolding("park", bank)
	require.NoError(t, err)
	require.NoError(t, v.InitializeActions([]vault.Action{park}))

	ws := NewWebServer("0", v, bank, nil, "test_params")
	return ws, v, bank
}

func doJSON(t *testing.T, ws *WebServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ws.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleDeposit(t *testing.T) {
	ws, v, _ := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "1000", body["shares_minted"])
	assert.Equal(t, sdkmath.NewInt(1_000), v.ShareBalance("alice"))
}

func TestHandleDepositErrors(t *testing.T) {
	ws, v, _ := newTestServer(t)

	// Malformed amount is a 400.
	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "not-a-number",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Zero deposit is a 400.
	rec = doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "0",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Emergency state is a 409.
	require.NoError(t, v.EmergencyPause())
	rec = doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "10",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleWithdraw(t *testing.T) {
	ws, _, bank := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ws, http.MethodPost, "/api/vault/withdraw", map[string]string{
		"depositor": "alice",
		"shares":    "400",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "396", body["amount_out"])
	assert.Equal(t, sdkmath.NewInt(4), bank.BalanceOf("fees"))
}

func TestHandleWithdrawSlippage(t *testing.T) {
	ws, _, _ := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ws, http.MethodPost, "/api/vault/withdraw", map[string]string{
		"depositor":      "alice",
		"shares":         "400",
		"min_amount_out": "400",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleVaultSummary(t *testing.T) {
	ws, _, _ := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ws, http.MethodGet, "/api/vault/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "unlocked", body["state"])
	assert.Equal(t, "1000", body["total_value"])
	assert.Equal(t, "1000", body["total_shares"])
	assert.Equal(t, float64(1), body["strategy_count"])
}

func TestHandleShares(t *testing.T) {
	ws, _, _ := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "250",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ws, http.MethodGet, "/api/vault/shares/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "250", body["shares"])

	rec = doJSON(t, ws, http.MethodGet, "/api/vault/shares/nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "0", body["shares"])
}

func TestHandleRollOverAndClose(t *testing.T) {
	ws, v, bank := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/vault/deposit", map[string]string{
		"depositor": "alice",
		"amount":    "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, ws, http.MethodPost, "/api/admin/rollover", map[string]interface{}{
		"percentages": []int64{10_000},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, vault.StateLocked, v.State())
	assert.Equal(t, sdkmath.NewInt(1_000), bank.BalanceOf("park"))

	// Rolling over a locked vault conflicts.
	rec = doJSON(t, ws, http.MethodPost, "/api/admin/rollover", map[string]interface{}{
		"percentages": []int64{10_000},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A malformed percentage table is a 400.
	rec = doJSON(t, ws, http.MethodPost, "/api/admin/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, ws, http.MethodPost, "/api/admin/rollover", map[string]interface{}{
		"percentages": []int64{9_999},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, vault.StateUnlocked, v.State())
	assert.Equal(t, sdkmath.NewInt(1_000), v.IdleReserve())
}

func TestHandlePauseAndResume(t *testing.T) {
	ws, v, _ := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/admin/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, vault.StateEmergency, v.State())

	rec = doJSON(t, ws, http.MethodPost, "/api/admin/pause", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, ws, http.MethodPost, "/api/admin/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, vault.StateUnlocked, v.State())

	rec = doJSON(t, ws, http.MethodPost, "/api/admin/resume", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleTreasuryCredit(t *testing.T) {
	ws, _, bank := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/treasury/credit", map[string]string{
		"account": "bob",
		"amount":  "777",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sdkmath.NewInt(777), bank.BalanceOf("bob"))

	rec = doJSON(t, ws, http.MethodPost, "/api/treasury/credit", map[string]string{
		"account": "bob",
		"amount":  "bad",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleInitializeActions(t *testing.T) {
	bank := treasury.New()
	v, err := vault.New(vault.Config{
		Bank:    bank,
		Account: "vault",
		Parameters: vault.Parameters{
			VaultCap:     sdkmath.ZeroInt(),
			FeeRecipient: "fees",
		},
	})
	require.NoError(t, err)
	ws := NewWebServer("0", v, bank, nil, "test_params")

	body := map[string]interface{}{
		"strategies": []map[string]interface{}{
			{"id": "park", "kind": "holding", "target_bps": 10_000},
		},
	}
	rec := doJSON(t, ws, http.MethodPost, "/api/admin/actions", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, v.Actions(), 1)

	// The roster can only be fixed once.
	rec = doJSON(t, ws, http.MethodPost, "/api/admin/actions", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// An invalid roster is a 400.
	rec = doJSON(t, ws, http.MethodPost, "/api/admin/actions", map[string]interface{}{
		"strategies": []map[string]interface{}{
			{"id": "x", "kind": "perpetuals", "target_bps": 10_000},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRunCycleWithoutEngine(t *testing.T) {
	ws, _, _ := newTestServer(t)

	rec := doJSON(t, ws, http.MethodPost, "/api/admin/cycle", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
