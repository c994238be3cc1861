package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookkeeper/internal/accounts"
	"github.com/cleared-dev/bookkeeper/internal/model"
	"github.com/cleared-dev/bookkeeper/internal/posting"
)

type accountRequest struct {
	Name                 string               `json:"name"`
	Type                 model.AccountType    `json:"type"`
	Classification       model.Classification `json:"classification"`
	FinalAccountCategory model.FinalCategory  `json:"finalAccountCategory"`
	Description          string               `json:"description"`
}

type accountPatch struct {
	Name                 *string               `json:"name"`
	Type                 *model.AccountType    `json:"type"`
	Classification       *model.Classification `json:"classification"`
	FinalAccountCategory *model.FinalCategory  `json:"finalAccountCategory"`
	Description          *string               `json:"description"`
}

type journalLine struct {
	Side    string          `json:"side"`
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

type journalRequest struct {
	Date       model.Date    `json:"date"`
	Narration  string        `json:"narration"`
	Lines      []journalLine `json:"lines"`
	AutoCreate bool          `json:"autoCreate"`
}

type depreciationRequest struct {
	AssetID string          `json:"assetId"`
	Method  string          `json:"method"`
	Rate    decimal.Decimal `json:"rate"`
	Date    model.Date      `json:"date"`
	Preview bool            `json:"preview"`
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GET /api/accounts
func (h *Handler) listAccounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"accounts": h.books.Accounts()})
}

// POST /api/accounts
func (h *Handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.books.CreateAccount(req.Name, req.Type, req.Classification, req.FinalAccountCategory)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if req.Description != "" {
		if a, err = h.books.UpdateAccount(a.ID, accounts.Patch{Description: &req.Description}); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusCreated, a)
	}
}

// PATCH /api/accounts/{id}
func (h *Handler) updateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountPatch
	if !decode(w, r, &req) {
		return
	}
	a, err := h.books.UpdateAccount(chi.URLParam(r, "id"), accounts.Patch{
		Name:                 req.Name,
		Type:                 req.Type,
		Classification:       req.Classification,
		FinalAccountCategory: req.FinalAccountCategory,
		Description:          req.Description,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusOK, a)
	}
}

// DELETE /api/accounts/{id}
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.books.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/accounts/{id}/ledger
func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	l, err := h.books.Ledger(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// GET /api/entries
func (h *Handler) listEntries(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": h.books.Entries()})
}

// POST /api/entries
func (h *Handler) postJournal(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if !decode(w, r, &req) {
		return
	}
	lines := make([]posting.ManualLine, len(req.Lines))
	for i, l := range req.Lines {
		side, err := model.ParseSide(l.Side)
		if err != nil {
			writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		lines[i] = posting.ManualLine{Side: side, Account: l.Account, Amount: l.Amount}
	}
	entry, err := h.books.PostJournal(req.Date, req.Narration, lines, posting.JournalOptions{AutoCreate: req.AutoCreate})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusCreated, entry)
	}
}

// GET /api/cashbook
func (h *Handler) cashBook(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"vouchers":          h.books.CashBookEntries(),
		"balance":           h.books.CashBookBalance(),
		"hasOpeningBalance": h.books.HasOpeningBalance(),
	})
}

// POST /api/cashbook
func (h *Handler) postVoucher(w http.ResponseWriter, r *http.Request) {
	var v model.CashBookEntry
	if !decode(w, r, &v) {
		return
	}
	posted, entry, err := h.books.PostCashVoucher(v)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusCreated, map[string]any{"voucher": posted, "entry": entry})
	}
}

// GET /api/invoices?book=SALES
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	docs := h.books.SubsidiaryEntries()
	if book := r.URL.Query().Get("book"); book != "" {
		bt, err := model.ParseBookType(book)
		if err != nil {
			writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filtered := docs[:0]
		for _, d := range docs {
			if d.BookType == bt {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{"invoices": docs})
}

// GET /api/invoices/references?book=SALES_RETURN
func (h *Handler) referenceDocs(w http.ResponseWriter, r *http.Request) {
	bt, err := model.ParseBookType(r.URL.Query().Get("book"))
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"invoices":   h.books.ValidReferenceDocs(bt),
		"nextNumber": h.books.GenerateDocumentID(bt),
	})
}

// POST /api/invoices
func (h *Handler) postInvoice(w http.ResponseWriter, r *http.Request) {
	var doc model.SubsidiaryEntry
	if !decode(w, r, &doc) {
		return
	}
	posted, entry, err := h.books.PostInvoice(doc)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusCreated, map[string]any{"invoice": posted, "entry": entry})
	}
}

// GET /api/stock
func (h *Handler) stock(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"method": h.books.Settings().InventoryMethod,
		"items":  h.books.StockSummaries(),
	})
}

// GET /api/stock/{id}/register
func (h *Handler) stockRegister(w http.ResponseWriter, r *http.Request) {
	rows, err := h.books.StockRegister(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// GET /api/depreciation/assets
func (h *Handler) depreciationAssets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"assets": h.books.EligibleDepreciationAssets()})
}

// POST /api/depreciation
func (h *Handler) postDepreciation(w http.ResponseWriter, r *http.Request) {
	var req depreciationRequest
	if !decode(w, r, &req) {
		return
	}
	method, err := posting.ParseDepreciationMethod(req.Method)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	charge, err := h.books.DepreciationCharge(req.AssetID, method, req.Rate, req.Date)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if req.Preview {
		writeJSON(w, http.StatusOK, map[string]any{"charge": charge})
		return
	}
	entry, err := h.books.PostDepreciation(charge)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusCreated, map[string]any{"charge": charge, "entry": entry})
	}
}

// GET /api/reports/trial-balance
func (h *Handler) trialBalance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.books.TrialBalance())
}

// GET /api/reports/final-accounts
func (h *Handler) finalAccounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.books.FinalAccounts())
}

// GET /api/reports/fiscal
func (h *Handler) fiscal(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.books.FiscalAnalysis())
}

// GET /api/notes
func (h *Handler) listNotes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notes": h.books.Notes()})
}

// POST /api/notes
func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.books.AddNote(req.Title, req.Content)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusCreated, n)
	}
}

// DELETE /api/notes/{id}
func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.books.DeleteNote(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, r, err)
		return
	}
	if h.persist(w, r) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/settings
func (h *Handler) settings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.books.Settings())
}

// PUT /api/settings
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var s model.Settings
	if !decode(w, r, &s) {
		return
	}
	if err := h.books.UpdateSettings(s); err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if h.persist(w, r) {
		writeJSON(w, http.StatusOK, h.books.Settings())
	}
}

// GET /api/export
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	data, err := h.books.Export()
	if err != nil {
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="books.json"`)
	_, _ = w.Write(data)
}
