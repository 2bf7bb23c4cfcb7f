package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/usecase"
)

// ReferenceHandler serves the currency and category reference tables.
type ReferenceHandler struct {
	currencyRepo usecase.CurrencyRepository
	categoryRepo usecase.CategoryRepository
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(currencyRepo usecase.CurrencyRepository, categoryRepo usecase.CategoryRepository) *ReferenceHandler {
	return &ReferenceHandler{
		currencyRepo: currencyRepo,
		categoryRepo: categoryRepo,
	}
}

// ListCurrencies lists all supported currencies.
func (h *ReferenceHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.currencyRepo.List(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list currencies", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrenciesFromDomain(currencies))
}

// GetCurrency retrieves a currency by ID.
func (h *ReferenceHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing currency ID", "")
		return
	}

	currency, err := h.currencyRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// ListCategories lists spend categories with pagination.
func (h *ReferenceHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.List(r.Context(),
		parseIntQuery(r, "limit", 100),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeDomainError(w, "failed to list categories", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// GetCategory retrieves a category by ID.
func (h *ReferenceHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing category ID", "")
		return
	}

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get category", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}
