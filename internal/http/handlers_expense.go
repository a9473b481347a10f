package http

import (
	"errors"
	"net/http"

	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
)

const expenseAddedMessage = "Expense Added!"

// handleCreateExpense validates the submitted row, appends it and persists
// the table. Success is only reported after the save went through.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	form, err := ReadExpenseForm(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Invalid expense request body", applog.FieldError, err)
		BadRequestError("Invalid request body").Write(w)
		return
	}

	rec, err := ParseExpenseForm(form, core.DateOf(s.svc.Now()))
	if err != nil {
		msg := err.Error()
		var fe *FormError
		if errors.As(err, &fe) {
			msg = fe.Message
		}
		logger.InfoContext(ctx, "Expense rejected",
			applog.FieldOperation, applog.OpValidate,
			applog.FieldError, err)
		s.rejectExpense(w, r, http.StatusUnprocessableEntity, form, msg)
		return
	}

	table, err := s.svc.AddExpense(ctx, rec)
	if err != nil {
		status, msg := http.StatusInternalServerError, "Failed to save expense, nothing was added"
		if !errors.Is(err, services.ErrSaveFailed) && isValidationError(err) {
			status, msg = http.StatusUnprocessableEntity, err.Error()
		}
		logger.ErrorContext(ctx, "Failed to add expense",
			applog.NewFields().WithRecord(rec).WithError(err).WithOperation(applog.OpAppend).ToSlice()...)
		s.rejectExpense(w, r, status, form, msg)
		return
	}

	summary := core.Summarize(table, s.svc.Now())

	if isHTMX(r) {
		body, err := s.renderFragment("expense_result", formData{Success: expenseAddedMessage})
		if err != nil {
			logger.ErrorContext(ctx, "Template execution failed", applog.FieldError, err, "template", "expense_result")
			body = `<div class="success">` + expenseAddedMessage + `</div>`
		}
		NewHTMXResponse().
			TriggerExpenseCreated(rec, table.Len()).
			TriggerStatsRefresh(formatMoney(summary.ThisMonth), formatMoney(summary.Total)).
			TriggerSuccessNotification(expenseAddedMessage).
			BodyHTML(body).
			Write(w)
		return
	}

	page := addPage(summary, form)
	page.Form.Success = expenseAddedMessage
	s.render(w, r, http.StatusOK, page)
}

// rejectExpense reports a failed add; htmx gets an error fragment, a plain
// form post gets the form back with the submitted values.
func (s *Server) rejectExpense(w http.ResponseWriter, r *http.Request, status int, form ExpenseForm, msg string) {
	if isHTMX(r) {
		ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
		return
	}

	summary, err := s.svc.Overview(r.Context())
	if err != nil {
		summary = core.Summary{}
	}
	page := addPage(summary, form)
	page.Form.Error = msg
	s.render(w, r, status, page)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidAmount,
		core.ErrNegativeAmount,
		core.ErrInvalidDate,
		core.ErrInvalidCategory,
		core.ErrInvalidPaymentMethod,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
