// Package handler exposes the ledger over JSON/HTTP. Every route expects the
// authenticated actor in the request context; the actor is the caller of each
// ledger operation.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance"
	"dsledger/internal/identity"
	"dsledger/internal/ledger"
	"dsledger/internal/trust"
	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
	"dsledger/pkg/platform/audit"
	"dsledger/pkg/platform/httputil"
	"dsledger/pkg/requestcontext"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

// Service is the ledger surface used by the HTTP layer.
type Service interface {
	SetRole(ctx context.Context, caller, addr common.Address, role trust.Role) (trust.RoleChange, error)
	RoleOf(addr common.Address) trust.Role

	RegisterInvestor(ctx context.Context, caller common.Address, id domain.InvestorID, collisionHash common.Hash) error
	AddWallet(ctx context.Context, caller, wallet common.Address, id domain.InvestorID) error
	SetCountry(ctx context.Context, caller common.Address, id domain.InvestorID, country domain.CountryCode) error
	SetAttribute(ctx context.Context, caller common.Address, id domain.InvestorID, attrID domain.AttributeID, attr identity.Attribute) error
	GetAttribute(id domain.InvestorID, attrID domain.AttributeID) identity.Attribute
	GetInvestor(ctx context.Context, id domain.InvestorID) (*ledger.InvestorView, error)
	InvestorOf(wallet common.Address) domain.InvestorID

	IssueTokens(ctx context.Context, caller, to common.Address, amount decimal.Decimal) error
	IssueTokenWithLocking(ctx context.Context, caller, to common.Address, amount decimal.Decimal, lock ledger.Lock) error
	Transfer(ctx context.Context, from, to common.Address, amount decimal.Decimal) error
	Burn(ctx context.Context, caller, from common.Address, amount decimal.Decimal, reason string) error
	Seize(ctx context.Context, caller, from, to common.Address, amount decimal.Decimal, reason string) error
	Pause(ctx context.Context, caller common.Address) error
	Unpause(ctx context.Context, caller common.Address) error
	SetIssuanceEnabled(ctx context.Context, caller common.Address, enabled bool) error

	BalanceOf(addr common.Address) decimal.Decimal
	SpendableBalance(ctx context.Context, addr common.Address) decimal.Decimal
	LockInfo(ctx context.Context, addr common.Address) ledger.LockInfo
	TokenInfo() ledger.TokenInfo
	DailyVolumeUsed(ctx context.Context) decimal.Decimal
	Holders() []common.Address
	GetWalletAt(index int) (common.Address, error)

	SetCountryCompliance(ctx context.Context, caller common.Address, country domain.CountryCode, allowed bool) error
	SetTransactionLimits(ctx context.Context, caller common.Address, maxSingle, dailyLimit decimal.Decimal) error
	SetMaxHolders(ctx context.Context, caller common.Address, maxHolders int) error
	Policy() compliance.Policy
	PreIssuanceCheck(ctx context.Context, wallet common.Address, amount decimal.Decimal) compliance.Result
	PreTransferCheck(ctx context.Context, from, to common.Address, amount decimal.Decimal) compliance.Result
}

// AuditReader reads back recorded audit events.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
	List(ctx context.Context, addr string) ([]audit.Event, error)
}

// Handler serves the ledger routes.
type Handler struct {
	svc    Service
	audit  AuditReader
	logger *slog.Logger
}

// New creates a Handler. A nil audit reader disables the audit routes.
func New(svc Service, auditReader AuditReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, audit: auditReader, logger: logger}
}

// Register registers the ledger routes on r. Authentication is applied by
// the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Post("/", h.handleSetRole)
		r.Get("/{address}", h.handleGetRole)
	})

	r.Route("/investors", func(r chi.Router) {
		r.Post("/", h.handleRegisterInvestor)
		r.Get("/{investorID}", h.handleGetInvestor)
		r.Post("/{investorID}/wallets", h.handleAddWallet)
		r.Put("/{investorID}/country", h.handleSetCountry)
		r.Put("/{investorID}/attributes/{attributeID}", h.handleSetAttribute)
		r.Get("/{investorID}/attributes/{attributeID}", h.handleGetAttribute)
	})
	r.Get("/wallets/{address}/investor", h.handleWalletInvestor)

	r.Route("/token", func(r chi.Router) {
		r.Get("/", h.handleTokenInfo)
		r.Post("/issue", h.handleIssue)
		r.Post("/transfer", h.handleTransfer)
		r.Post("/burn", h.handleBurn)
		r.Post("/seize", h.handleSeize)
		r.Post("/pause", h.handlePause)
		r.Post("/unpause", h.handleUnpause)
		r.Put("/issuance", h.handleSetIssuance)
		r.Get("/balances/{address}", h.handleBalance)
		r.Get("/holders", h.handleHolders)
		r.Get("/holders/{index}", h.handleHolderAt)
	})

	r.Route("/compliance", func(r chi.Router) {
		r.Get("/policy", h.handlePolicy)
		r.Post("/countries", h.handleCountryCompliance)
		r.Put("/limits", h.handleTransactionLimits)
		r.Put("/max-holders", h.handleMaxHolders)
		r.Post("/check/issuance", h.handleIssuanceCheck)
		r.Post("/check/transfer", h.handleTransferCheck)
	})

	r.Get("/audit/events", h.handleAuditEvents)
}

// fail logs err at a level matching its class and writes the error response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err.Error()}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

// caller returns the authenticated actor or writes 401.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	actor := requestcontext.Actor(r.Context())
	if actor == (common.Address{}) {
		h.fail(r.Context(), w, "actor missing from request context",
			dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return common.Address{}, false
	}
	return actor, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		h.fail(r.Context(), w, "invalid request body", err)
		return false
	}
	return true
}

func investorParam(r *http.Request) (domain.InvestorID, error) {
	return domain.ParseInvestorID(chi.URLParam(r, "investorID"))
}

// -----------------------------------------------------------------------------
// Roles
// -----------------------------------------------------------------------------

func (h *Handler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req SetRoleRequest
	if !h.decode(w, r, &req) {
		return
	}
	addr, err := parseAddress("address", req.Address)
	if err != nil {
		h.fail(ctx, w, "invalid set role request", err)
		return
	}
	role, err := trust.ParseRole(req.Role)
	if err != nil {
		h.fail(ctx, w, "invalid set role request", err)
		return
	}

	change, err := h.svc.SetRole(ctx, caller, addr, role)
	if err != nil {
		h.fail(ctx, w, "set role failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RoleChangeResponse{
		Address: change.Address.Hex(),
		OldRole: change.OldRole.String(),
		NewRole: change.NewRole.String(),
	})
}

func (h *Handler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(r.Context(), w, "invalid role lookup", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRoleResponse(addr, h.svc.RoleOf(addr)))
}

// -----------------------------------------------------------------------------
// Investors
// -----------------------------------------------------------------------------

func (h *Handler) handleRegisterInvestor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req RegisterInvestorRequest
	if !h.decode(w, r, &req) {
		return
	}
	id, err := domain.ParseInvestorID(req.InvestorID)
	if err != nil {
		h.fail(ctx, w, "invalid register investor request", err)
		return
	}
	// A missing collision hash is derived from the identifier.
	hash := domain.CollisionHash(id.String())
	if req.CollisionHash != "" {
		if hash, err = domain.ParseHash(req.CollisionHash); err != nil {
			h.fail(ctx, w, "invalid register investor request", err)
			return
		}
	}

	if err := h.svc.RegisterInvestor(ctx, caller, id, hash); err != nil {
		h.fail(ctx, w, "register investor failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"investor_id":    id.String(),
		"collision_hash": hash.Hex(),
	})
}

func (h *Handler) handleGetInvestor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := investorParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid investor lookup", err)
		return
	}
	view, err := h.svc.GetInvestor(ctx, id)
	if err != nil {
		h.fail(ctx, w, "get investor failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toInvestorResponse(view, requestcontext.Now(ctx)))
}

func (h *Handler) handleAddWallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := investorParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid add wallet request", err)
		return
	}
	var req AddWalletRequest
	if !h.decode(w, r, &req) {
		return
	}
	wallet, err := parseAddress("wallet", req.Wallet)
	if err != nil {
		h.fail(ctx, w, "invalid add wallet request", err)
		return
	}

	if err := h.svc.AddWallet(ctx, caller, wallet, id); err != nil {
		h.fail(ctx, w, "add wallet failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WalletInvestorResponse{Wallet: wallet.Hex(), InvestorID: id.String()})
}

func (h *Handler) handleSetCountry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := investorParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid set country request", err)
		return
	}
	var req SetCountryRequest
	if !h.decode(w, r, &req) {
		return
	}
	country, err := domain.ParseCountry(req.Country)
	if err != nil {
		h.fail(ctx, w, "invalid set country request", err)
		return
	}

	if err := h.svc.SetCountry(ctx, caller, id, country); err != nil {
		h.fail(ctx, w, "set country failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSetAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	id, err := investorParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid set attribute request", err)
		return
	}
	attrID, err := parseAttributeID(chi.URLParam(r, "attributeID"))
	if err != nil {
		h.fail(ctx, w, "invalid set attribute request", err)
		return
	}
	var req SetAttributeRequest
	if !h.decode(w, r, &req) {
		return
	}
	attr := identity.Attribute{Value: req.Value, Expiry: req.Expiry}
	if req.ProofHash != "" {
		if attr.ProofHash, err = domain.ParseHash(req.ProofHash); err != nil {
			h.fail(ctx, w, "invalid set attribute request", err)
			return
		}
	}

	if err := h.svc.SetAttribute(ctx, caller, id, attrID, attr); err != nil {
		h.fail(ctx, w, "set attribute failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetAttribute returns the zero attribute for unknown investors and
// unset attributes.
func (h *Handler) handleGetAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := investorParam(r)
	if err != nil {
		h.fail(ctx, w, "invalid attribute lookup", err)
		return
	}
	attrID, err := parseAttributeID(chi.URLParam(r, "attributeID"))
	if err != nil {
		h.fail(ctx, w, "invalid attribute lookup", err)
		return
	}
	attr := h.svc.GetAttribute(id, attrID)
	httputil.WriteJSON(w, http.StatusOK, toAttributeResponse(attr, requestcontext.Now(ctx)))
}

// handleWalletInvestor returns an empty investor_id for unbound wallets.
func (h *Handler) handleWalletInvestor(w http.ResponseWriter, r *http.Request) {
	wallet, err := parseAddress("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(r.Context(), w, "invalid wallet lookup", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WalletInvestorResponse{
		Wallet:     wallet.Hex(),
		InvestorID: h.svc.InvestorOf(wallet).String(),
	})
}

// -----------------------------------------------------------------------------
// Token
// -----------------------------------------------------------------------------

func (h *Handler) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(h.svc.TokenInfo(), h.svc.DailyVolumeUsed(r.Context())))
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req IssueRequest
	if !h.decode(w, r, &req) {
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		h.fail(ctx, w, "invalid issue request", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		h.fail(ctx, w, "invalid issue request", err)
		return
	}

	if req.hasLock() {
		locked, err := parseAmount("locked_amount", req.LockedAmount)
		if err != nil {
			h.fail(ctx, w, "invalid issue request", err)
			return
		}
		lock := ledger.Lock{Amount: locked, Reason: req.LockReason, ReleaseTime: req.ReleaseTime}
		err = h.svc.IssueTokenWithLocking(ctx, caller, to, amount, lock)
		if err != nil {
			h.fail(ctx, w, "locked issuance failed", err)
			return
		}
	} else if err := h.svc.IssueTokens(ctx, caller, to, amount); err != nil {
		h.fail(ctx, w, "issuance failed", err)
		return
	}
	h.writeBalance(w, r, to)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		h.fail(ctx, w, "invalid transfer request", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		h.fail(ctx, w, "invalid transfer request", err)
		return
	}

	if err := h.svc.Transfer(ctx, from, to, amount); err != nil {
		h.fail(ctx, w, "transfer failed", err)
		return
	}
	h.writeBalance(w, r, from)
}

func (h *Handler) handleBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req BurnRequest
	if !h.decode(w, r, &req) {
		return
	}
	from, err := parseAddress("from", req.From)
	if err != nil {
		h.fail(ctx, w, "invalid burn request", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		h.fail(ctx, w, "invalid burn request", err)
		return
	}

	if err := h.svc.Burn(ctx, caller, from, amount, req.Reason); err != nil {
		h.fail(ctx, w, "burn failed", err)
		return
	}
	h.writeBalance(w, r, from)
}

func (h *Handler) handleSeize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req SeizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	from, err := parseAddress("from", req.From)
	if err != nil {
		h.fail(ctx, w, "invalid seize request", err)
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		h.fail(ctx, w, "invalid seize request", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		h.fail(ctx, w, "invalid seize request", err)
		return
	}

	if err := h.svc.Seize(ctx, caller, from, to, amount, req.Reason); err != nil {
		h.fail(ctx, w, "seize failed", err)
		return
	}
	h.writeBalance(w, r, from)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	h.togglePause(w, r, true)
}

func (h *Handler) handleUnpause(w http.ResponseWriter, r *http.Request) {
	h.togglePause(w, r, false)
}

func (h *Handler) togglePause(w http.ResponseWriter, r *http.Request, pause bool) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var err error
	if pause {
		err = h.svc.Pause(ctx, caller)
	} else {
		err = h.svc.Unpause(ctx, caller)
	}
	if err != nil {
		h.fail(ctx, w, "pause state change failed", err)
		return
	}
	h.handleTokenInfo(w, r)
}

func (h *Handler) handleSetIssuance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req SetIssuanceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.SetIssuanceEnabled(ctx, caller, req.Enabled); err != nil {
		h.fail(ctx, w, "set issuance failed", err)
		return
	}
	h.handleTokenInfo(w, r)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(r.Context(), w, "invalid balance lookup", err)
		return
	}
	h.writeBalance(w, r, addr)
}

func (h *Handler) writeBalance(w http.ResponseWriter, r *http.Request, addr common.Address) {
	ctx := r.Context()
	httputil.WriteJSON(w, http.StatusOK, toBalanceResponse(
		addr,
		h.svc.BalanceOf(addr),
		h.svc.SpendableBalance(ctx, addr),
		h.svc.LockInfo(ctx, addr),
	))
}

func (h *Handler) handleHolders(w http.ResponseWriter, r *http.Request) {
	holders := h.svc.Holders()
	resp := HoldersResponse{Count: len(holders), Holders: make([]string, len(holders))}
	for i, addr := range holders {
		resp.Holders[i] = addr.Hex()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHolderAt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(ctx, w, "invalid holder index", dErrors.New(dErrors.CodeInvalidInput, "index must be an integer"))
		return
	}
	addr, err := h.svc.GetWalletAt(index)
	if err != nil {
		h.fail(ctx, w, "holder lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, HolderResponse{Index: index, Address: addr.Hex()})
}

// -----------------------------------------------------------------------------
// Compliance
// -----------------------------------------------------------------------------

func (h *Handler) handlePolicy(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toPolicyResponse(h.svc.Policy()))
}

func (h *Handler) handleCountryCompliance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req CountryComplianceRequest
	if !h.decode(w, r, &req) {
		return
	}
	country, err := domain.ParseCountry(req.Country)
	if err != nil {
		h.fail(ctx, w, "invalid country compliance request", err)
		return
	}
	if err := h.svc.SetCountryCompliance(ctx, caller, country, req.Allowed); err != nil {
		h.fail(ctx, w, "set country compliance failed", err)
		return
	}
	h.handlePolicy(w, r)
}

func (h *Handler) handleTransactionLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req TransactionLimitsRequest
	if !h.decode(w, r, &req) {
		return
	}
	maxSingle, err := parseLimit("max_single_transaction", req.MaxSingleTransaction)
	if err != nil {
		h.fail(ctx, w, "invalid transaction limits request", err)
		return
	}
	daily, err := parseLimit("daily_volume_limit", req.DailyVolumeLimit)
	if err != nil {
		h.fail(ctx, w, "invalid transaction limits request", err)
		return
	}
	if err := h.svc.SetTransactionLimits(ctx, caller, maxSingle, daily); err != nil {
		h.fail(ctx, w, "set transaction limits failed", err)
		return
	}
	h.handlePolicy(w, r)
}

func (h *Handler) handleMaxHolders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	var req MaxHoldersRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.SetMaxHolders(ctx, caller, req.MaxHolders); err != nil {
		h.fail(ctx, w, "set max holders failed", err)
		return
	}
	h.handlePolicy(w, r)
}

func (h *Handler) handleIssuanceCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req IssuanceCheckRequest
	if !h.decode(w, r, &req) {
		return
	}
	wallet, err := parseAddress("wallet", req.Wallet)
	if err != nil {
		h.fail(ctx, w, "invalid issuance check", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		h.fail(ctx, w, "invalid issuance check", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCheckResponse(h.svc.PreIssuanceCheck(ctx, wallet, amount)))
}

func (h *Handler) handleTransferCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req TransferCheckRequest
	if !h.decode(w, r, &req) {
		return
	}
	from, err := parseAddress("from", req.From)
	if err != nil {
		h.fail(ctx, w, "invalid transfer check", err)
		return
	}
	to, err := parseAddress("to", req.To)
	if err != nil {
		h.fail(ctx, w, "invalid transfer check", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		h.fail(ctx, w, "invalid transfer check", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCheckResponse(h.svc.PreTransferCheck(ctx, from, to, amount)))
}

// -----------------------------------------------------------------------------
// Audit
// -----------------------------------------------------------------------------

// handleAuditEvents lists recent events, or every event touching ?subject=.
// Only issuers and masters may read the trail.
func (h *Handler) handleAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.audit == nil {
		h.fail(ctx, w, "audit listing unavailable", dErrors.New(dErrors.CodeNotFound, "audit listing is not enabled"))
		return
	}
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	if !h.svc.RoleOf(caller).AtLeast(trust.RoleIssuer) {
		h.fail(ctx, w, "audit listing denied", dErrors.Newf(dErrors.CodeForbidden, "requires %s role", trust.RoleIssuer))
		return
	}

	var (
		events []audit.Event
		err    error
	)
	if s := r.URL.Query().Get("subject"); s != "" {
		subject, perr := parseAddress("subject", s)
		if perr != nil {
			h.fail(ctx, w, "invalid audit query", perr)
			return
		}
		events, err = h.audit.List(ctx, subject.Hex())
	} else {
		limit := defaultAuditLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, perr := strconv.Atoi(s)
			if perr != nil || n <= 0 {
				h.fail(ctx, w, "invalid audit query", dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
				return
			}
			limit = min(n, maxAuditLimit)
		}
		events, err = h.audit.Recent(ctx, limit)
	}
	if err != nil {
		h.fail(ctx, w, "audit listing failed", dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}

	resp := AuditEventsResponse{Events: make([]AuditEventResponse, len(events))}
	for i, e := range events {
		resp.Events[i] = toAuditEventResponse(e)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
