package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/nativevault/nvm/internal/config"
	"github.com/nativevault/nvm/internal/engine"
	"github.com/nativevault/nvm/internal/logger"
	"github.com/nativevault/nvm/internal/state"
	"github.com/nativevault/nvm/internal/strategy"
	"github.com/nativevault/nvm/internal/treasury"
	"github.com/nativevault/nvm/internal/types"
	"github.com/nativevault/nvm/internal/utils"
	"github.com/nativevault/nvm/internal/vault"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for vault operations and data
type WebServer struct {
	router   *mux.Router
	port     string
	vault    *vault.Vault
	treasury *treasury.Treasury
	engine   *engine.Engine

	configName string
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, v *vault.Vault, t *treasury.Treasury, eng *engine.Engine, configName string) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:     mux.NewRouter(),
		port:       port,
		vault:      v,
		treasury:   t,
		engine:     eng,
		configName: configName,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/cycles", ws.handleGetCycles).Methods("GET")
	api.HandleFunc("/cycles/latest", ws.handleGetLatestCycle).Methods("GET")
	api.HandleFunc("/cycles/{id}", ws.handleGetCycle).Methods("GET")
	api.HandleFunc("/parameters", ws.handleGetParameters).Methods("GET")
	api.HandleFunc("/performance", ws.handleGetPerformanceMetrics).Methods("GET")

	api.HandleFunc("/vault/summary", ws.handleGetVaultSummary).Methods("GET")
	api.HandleFunc("/vault/shares/{account}", ws.handleGetShares).Methods("GET")
	api.HandleFunc("/vault/deposit", ws.handleDeposit).Methods("POST")
	api.HandleFunc("/vault/withdraw", ws.handleWithdraw).Methods("POST")

	api.HandleFunc("/admin/cycle", ws.handleRunCycle).Methods("POST")
	api.HandleFunc("/admin/actions", ws.handleInitializeActions).Methods("POST")
	api.HandleFunc("/admin/rollover", ws.handleRollOver).Methods("POST")
	api.HandleFunc("/admin/close", ws.handleClosePositions).Methods("POST")
	api.HandleFunc("/admin/pause", ws.handlePause).Methods("POST")
	api.HandleFunc("/admin/resume", ws.handleResume).Methods("POST")
	api.HandleFunc("/admin/cap", ws.handleSetCap).Methods("POST")
	api.HandleFunc("/admin/withdrawal-reserve", ws.handleSetWithdrawalReserve).Methods("POST")
	api.HandleFunc("/admin/fee-recipient", ws.handleSetFeeRecipient).Methods("POST")

	api.HandleFunc("/treasury/credit", ws.handleTreasuryCredit).Methods("POST")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns comprehensive server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	// Get runtime memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	// Get latest cycle information
	latestCycle, cycleErr := state.GetRecentCycles(1)
	var cycleInfo map[string]interface{}
	var hasErrors bool

	if cycleErr == nil && len(latestCycle) > 0 {
		cycle := latestCycle[0]
		cycleInfo = map[string]interface{}{
			"current_cycle":     cycle.CycleNumber,
			"last_cycle_time":   cycle.Timestamp,
			"last_cycle_status": cycle.Success,
		}
		hasErrors = !cycle.Success
	} else {
		cycleInfo = map[string]interface{}{
			"current_cycle":     0,
			"last_cycle_time":   nil,
			"last_cycle_status": "unknown",
		}
	}

	// Get database connection status
	dbHealthy := true
	if err := state.TestDBConnection(); err != nil {
		dbHealthy = false
		hasErrors = true
	}

	overallStatus := "OK"
	if hasErrors {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "nvm-native-vault-manager",
			"version": "1.0.0",
		},
		"vault_status": map[string]interface{}{
			"state":             ws.vault.State().String(),
			"database_healthy":  dbHealthy,
			"has_recent_errors": hasErrors,
			"cycle_info":        cycleInfo,
		},
	}

	statusCode := http.StatusOK
	if hasErrors {
		statusCode = http.StatusServiceUnavailable
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetCycles returns paginated cycle data
func (ws *WebServer) handleGetCycles(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	cycles, err := state.GetRecentCycles(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent cycles")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve cycles")
		return
	}

	response := map[string]interface{}{
		"cycles": cycles,
		"count":  len(cycles),
		"limit":  limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetCycle returns a specific cycle by ID
func (ws *WebServer) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid cycle ID")
		return
	}

	cycle, err := state.GetCycleByID(id)
	if err != nil {
		webLogger.Error().Err(err).Int64("cycleId", id).Msg("Failed to get cycle")
		ws.writeErrorResponse(w, http.StatusNotFound, "Cycle not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, cycle)
}

// handleGetLatestCycle returns the most recent cycle
func (ws *WebServer) handleGetLatestCycle(w http.ResponseWriter, r *http.Request) {
	cycles, err := state.GetRecentCycles(1)
	if err != nil || len(cycles) == 0 {
		webLogger.Error().Err(err).Msg("Failed to get latest cycle")
		ws.writeErrorResponse(w, http.StatusNotFound, "No cycles found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, cycles[0])
}

// handleGetParameters returns the active vault parameters
func (ws *WebServer) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	params, err := state.LoadActiveVaultParameters(ws.configName)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get vault parameters")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve vault parameters")
		return
	}

	response := map[string]interface{}{
		"parameters": params,
		"timestamp":  time.Now().UTC(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetVaultSummary returns live vault summary statistics
func (ws *WebServer) handleGetVaultSummary(w http.ResponseWriter, r *http.Request) {
	totalValue, err := ws.vault.TotalValue()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to value the vault")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to value the vault")
		return
	}

	display, err := utils.IntToDisplay(totalValue, config.DisplayPrecision)
	if err != nil {
		webLogger.Warn().Err(err).Msg("Failed to convert total value for display")
	}

	summary := types.VaultSummary{
		State:                ws.vault.State().String(),
		IdleReserve:          ws.vault.IdleReserve(),
		TotalValue:           totalValue,
		TotalShares:          ws.vault.TotalShares(),
		VaultCap:             ws.vault.VaultCap(),
		WithdrawalReserveBps: ws.vault.WithdrawalReserve(),
		WithdrawFeeBps:       ws.vault.WithdrawFee(),
		FeeRecipient:         ws.vault.FeeRecipient(),
		StrategyCount:        len(ws.vault.Actions()),
		TotalValueDisplay:    display,
	}

	ws.writeJSONResponse(w, http.StatusOK, summary)
}

// handleGetShares returns the share balance of a single account
func (ws *WebServer) handleGetShares(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	if account == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Account is required")
		return
	}

	response := map[string]interface{}{
		"account":      account,
		"shares":       ws.vault.ShareBalance(account),
		"total_shares": ws.vault.TotalShares(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

type depositRequest struct {
	Depositor string `json:"depositor"`
	Amount    string `json:"amount"`
}

// handleDeposit processes a deposit into the vault
func (ws *WebServer) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	shares, err := ws.vault.Deposit(req.Depositor, amount)
	if err != nil {
		ws.writeVaultError(w, err)
		return
	}

	response := map[string]interface{}{
		"depositor":     req.Depositor,
		"amount":        amount,
		"shares_minted": shares,
		"total_shares":  ws.vault.TotalShares(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

type withdrawRequest struct {
	Depositor    string `json:"depositor"`
	Shares       string `json:"shares"`
	MinAmountOut string `json:"min_amount_out"`
}

// handleWithdraw processes a withdrawal from the vault
func (ws *WebServer) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	shares, ok := sdkmath.NewIntFromString(req.Shares)
	if !ok {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid shares")
		return
	}

	minAmountOut := sdkmath.ZeroInt()
	if req.MinAmountOut != "" {
		minAmountOut, ok = sdkmath.NewIntFromString(req.MinAmountOut)
		if !ok {
			ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid min_amount_out")
			return
		}
	}

	amount, err := ws.vault.Withdraw(req.Depositor, shares, minAmountOut)
	if err != nil {
		ws.writeVaultError(w, err)
		return
	}

	response := map[string]interface{}{
		"depositor":     req.Depositor,
		"shares_burned": shares,
		"amount_out":    amount,
		"total_shares":  ws.vault.TotalShares(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleRunCycle triggers a full allocation cycle immediately
func (ws *WebServer) handleRunCycle(w http.ResponseWriter, r *http.Request) {
	if ws.engine == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Cycle engine not configured")
		return
	}

	if err := ws.engine.RunCycle(r.Context()); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "cycle completed",
		"state":  ws.vault.State().String(),
	})
}

type initializeActionsRequest struct {
	Strategies []types.StrategySpec `json:"strategies"`
}

// handleInitializeActions fixes the strategy roster. It can succeed at
// most once for the lifetime of the vault.
func (ws *WebServer) handleInitializeActions(w http.ResponseWriter, r *http.Request) {
	if ws.treasury == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Treasury not configured")
		return
	}

	var req initializeActionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	plan := types.AllocationPlan{Strategies: req.Strategies}
	if err := plan.Validate(); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	actions, err := strategy.FromSpecs(req.Strategies, ws.treasury)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := ws.vault.InitializeActions(actions); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":     "actions initialized",
		"strategies": len(actions),
	})
}

type rollOverRequest struct {
	Percentages []int64 `json:"percentages"`
}

// handleRollOver allocates the idle reserve across strategies
func (ws *WebServer) handleRollOver(w http.ResponseWriter, r *http.Request) {
	var req rollOverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := ws.vault.RollOver(req.Percentages); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "rolled over",
		"state":  ws.vault.State().String(),
	})
}

// handleClosePositions recalls all allocated capital into the idle reserve
func (ws *WebServer) handleClosePositions(w http.ResponseWriter, r *http.Request) {
	if err := ws.vault.ClosePositions(); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":       "positions closed",
		"state":        ws.vault.State().String(),
		"idle_reserve": ws.vault.IdleReserve(),
	})
}

// handlePause moves the vault into the emergency state
func (ws *WebServer) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := ws.vault.EmergencyPause(); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "paused",
		"state":  ws.vault.State().String(),
	})
}

// handleResume lifts the emergency state
func (ws *WebServer) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := ws.vault.ResumeFromPause(); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status": "resumed",
		"state":  ws.vault.State().String(),
	})
}

type setCapRequest struct {
	VaultCap string `json:"vault_cap"`
}

func (ws *WebServer) handleSetCap(w http.ResponseWriter, r *http.Request) {
	var req setCapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vaultCap, ok := sdkmath.NewIntFromString(req.VaultCap)
	if !ok {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid vault cap")
		return
	}

	if err := ws.vault.SetVaultCap(vaultCap); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.persistParameters()
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"vault_cap": vaultCap})
}

type setReserveRequest struct {
	ReserveBps int64 `json:"reserve_bps"`
}

func (ws *WebServer) handleSetWithdrawalReserve(w http.ResponseWriter, r *http.Request) {
	var req setReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := ws.vault.SetWithdrawalReserve(req.ReserveBps); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.persistParameters()
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"reserve_bps": req.ReserveBps})
}

type setFeeRecipientRequest struct {
	FeeRecipient string `json:"fee_recipient"`
}

func (ws *WebServer) handleSetFeeRecipient(w http.ResponseWriter, r *http.Request) {
	var req setFeeRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := ws.vault.SetFeeRecipient(req.FeeRecipient); err != nil {
		ws.writeVaultError(w, err)
		return
	}

	ws.persistParameters()
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"fee_recipient": req.FeeRecipient})
}

type treasuryCreditRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// handleTreasuryCredit funds an account in the in-process treasury
func (ws *WebServer) handleTreasuryCredit(w http.ResponseWriter, r *http.Request) {
	if ws.treasury == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "Treasury not configured")
		return
	}

	var req treasuryCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	if err := ws.treasury.Credit(req.Account, amount); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]interface{}{
		"account": req.Account,
		"balance": ws.treasury.BalanceOf(req.Account),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// persistParameters saves the vault's current parameters as a new active version.
// Persistence failures are logged but never fail the request.
func (ws *WebServer) persistParameters() {
	params := types.VaultParameters{
		VaultCap:             ws.vault.VaultCap(),
		WithdrawalReserveBps: ws.vault.WithdrawalReserve(),
		WithdrawFeeBps:       ws.vault.WithdrawFee(),
		FeeRecipient:         ws.vault.FeeRecipient(),
	}

	if _, err := state.SaveVaultParameters(params, ws.configName, int(time.Now().Unix()), true); err != nil {
		webLogger.Error().Err(err).Msg("Failed to persist vault parameters")
	}
}

// handleGetPerformanceMetrics returns performance metrics
func (ws *WebServer) handleGetPerformanceMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := state.GetPerformanceMetrics()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get performance metrics")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve performance metrics")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, metrics)
}

// writeVaultError maps vault sentinel errors to HTTP status codes
func (ws *WebServer) writeVaultError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError

	switch {
	case errors.Is(err, vault.ErrEmergencyState),
		errors.Is(err, vault.ErrInEmergency),
		errors.Is(err, vault.ErrNotInEmergency),
		errors.Is(err, vault.ErrVaultLocked),
		errors.Is(err, vault.ErrVaultUnlocked):
		statusCode = http.StatusConflict
	case errors.Is(err, vault.ErrEmptyDeposit),
		errors.Is(err, vault.ErrInvalidAmount),
		errors.Is(err, vault.ErrInconsistentAllocPercent),
		errors.Is(err, vault.ErrSumExceedsBase),
		errors.Is(err, vault.ErrSumNotBase),
		errors.Is(err, vault.ErrInvalidReserveRatio),
		errors.Is(err, vault.ErrInvalidAction):
		statusCode = http.StatusBadRequest
	case errors.Is(err, vault.ErrExceedVaultCap),
		errors.Is(err, vault.ErrReachVaultBalance),
		errors.Is(err, vault.ErrInsufficientShares),
		errors.Is(err, vault.ErrSlippageExceeded),
		errors.Is(err, vault.ErrVaultValueZero):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, vault.ErrNoActionInitialized),
		errors.Is(err, vault.ErrAlreadyInitialized):
		statusCode = http.StatusConflict
	}

	ws.writeErrorResponse(w, statusCode, err.Error())
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
