package customers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/clientdesk/clientdesk/internal/shared"
	"github.com/clientdesk/clientdesk/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validate  *validator.Validate
}

func NewHandler(
	logger *slog.Logger,
	service *Service,
	templates *view.Engine,
	csrf *shared.CSRFManager,
	validate *validator.Validate,
) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validate:  validate,
	}
}

type formErrors map[string]string

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	search := r.URL.Query().Get("q")

	customers, err := h.service.List(r.Context(), statusFilter, search)
	if err != nil {
		h.logger.Error("list customers failed", "error", err)
		http.Error(w, "Failed to load customers", http.StatusInternalServerError)
		return
	}

	if statusFilter == "" {
		statusFilter = StatusFilterAll
	}

	h.render(w, r, "pages/customers_list.html", map[string]any{
		"Customers":    customers,
		"Statuses":     AllStatuses(),
		"StatusFilter": statusFilter,
		"Search":       search,
	}, http.StatusOK)
}

func (h *Handler) ShowNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/customer_form.html", map[string]any{
		"Errors":   formErrors{},
		"Form":     CustomerForm{Status: string(StatusToPay)},
		"Statuses": AllStatuses(),
		"Customer": nil,
	}, http.StatusOK)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := FormFromRequest(r)
	customer, fieldErrors := form.Validate(h.validate)
	if fieldErrors != nil {
		h.render(w, r, "pages/customer_form.html", map[string]any{
			"Errors":   formErrors(fieldErrors),
			"Form":     form,
			"Statuses": AllStatuses(),
			"Customer": nil,
		}, http.StatusBadRequest)
		return
	}

	if _, err := h.service.Create(r.Context(), customer); err != nil {
		h.logger.Error("create customer failed", "error", err)
		h.render(w, r, "pages/customer_form.html", map[string]any{
			"Errors":   formErrors{"general": shared.UserSafeMessage(err)},
			"Form":     form,
			"Statuses": AllStatuses(),
			"Customer": nil,
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/customers", "success", "Customer added successfully")
}

func (h *Handler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("get customer failed", "error", err, "id", id)
		http.Error(w, "Failed to load customer", http.StatusInternalServerError)
		return
	}

	h.render(w, r, "pages/customer_form.html", map[string]any{
		"Errors":   formErrors{},
		"Form":     formFromCustomer(customer),
		"Statuses": AllStatuses(),
		"Customer": customer,
	}, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := FormFromRequest(r)
	customer, fieldErrors := form.Validate(h.validate)
	if fieldErrors != nil {
		h.render(w, r, "pages/customer_form.html", map[string]any{
			"Errors":   formErrors(fieldErrors),
			"Form":     form,
			"Statuses": AllStatuses(),
			"Customer": &Customer{ID: id},
		}, http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), id, customer); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("update customer failed", "error", err, "id", id)
		h.render(w, r, "pages/customer_form.html", map[string]any{
			"Errors":   formErrors{"general": shared.UserSafeMessage(err)},
			"Form":     form,
			"Statuses": AllStatuses(),
			"Customer": &Customer{ID: id},
		}, http.StatusBadRequest)
		return
	}

	h.redirectWithFlash(w, r, "/customers", "success", "Customer updated successfully")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("delete customer failed", "error", err, "id", id)
		h.redirectWithFlash(w, r, "/customers", "error", "Failed to delete customer")
		return
	}

	h.redirectWithFlash(w, r, "/customers", "success", "Customer deleted successfully")
}

// formFromCustomer pre-fills the edit form with stored values.
func formFromCustomer(c *Customer) CustomerForm {
	form := CustomerForm{
		Name:      c.Name,
		AmountDue: strconv.FormatFloat(c.AmountDue, 'f', 2, 64),
		Status:    string(c.Status),
	}
	if c.Email != nil {
		form.Email = *c.Email
	}
	if c.Phone != nil {
		form.Phone = *c.Phone
	}
	if c.Notes != nil {
		form.Notes = *c.Notes
	}
	if c.DueDate != nil {
		form.DueDate = c.DueDate.Format(dueDateLayout)
	}
	return form
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tmpl string, data map[string]any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)

	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}

	viewData := view.TemplateData{
		Title:       "Customers",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}

	w.WriteHeader(status)
	if err := h.templates.Render(w, tmpl, viewData); err != nil {
		h.logger.Error("template render failed", "error", err, "template", tmpl)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, flashType, message string) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: flashType, Message: message})
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
