package routes

import (
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/reminder"
	"github.com/capital/finance/pkg/domains/transaction"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
)

func TransactionRoutes(r *gin.RouterGroup, s transaction.Service, reminders reminder.Service) {
	r.GET("", listTransactions(s))
	r.POST("", createTransaction(s))
	r.GET("/:id", getTransaction(s))
	r.PUT("/:id", updateTransaction(s))
	r.DELETE("/:id", deleteTransaction(s))
	r.GET("/:id/reminders", transactionReminders(s, reminders))
}

// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page, starting at 1"
// @Param direction query string false "inflow or outflow"
// @Success 200 {object} dtos.TransactionListDTO
// @Failure 400 {object} map[string]string
// @Router /transactions [get]
func listTransactions(s transaction.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		page, ok := queryInt(c, "page", 1, constant.INVALID_PAGE_NUMBER)
		if !ok {
			return
		}

		result, err := s.List(c, state.CurrentUser(c), c.Query("direction"), page)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, dtos.TransactionListDTO{
			Transactions: result.Items,
			Page:         page,
			TotalPages:   result.TotalPages,
			Total:        result.Total,
		})
	}
}

// @Summary Record a transaction
// @Description Installment payments also create one reminder per installment.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dtos.TransactionDTO true "transaction"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /transactions [post]
func createTransaction(s transaction.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.TransactionDTO
		if !bind(c, &req) {
			return
		}

		tx, reminders, err := s.Create(c, state.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"message":     constant.ADDED,
			"transaction": tx,
			"reminders":   dtos.NewReminderDTOs(reminders),
		})
	}
}

// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} entities.Transaction
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func getTransaction(s transaction.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		tx, err := s.Get(c, state.CurrentUser(c), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, tx)
	}
}

// @Summary Update a transaction
// @Description Reminders are rebuilt when the installment plan changes.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param body body dtos.TransactionDTO true "transaction"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [put]
func updateTransaction(s transaction.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req dtos.TransactionDTO
		if !bind(c, &req) {
			return
		}

		tx, err := s.Update(c, state.CurrentUser(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.UPDATED, "transaction": tx})
	}
}

// @Summary Delete a transaction and its reminders
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [delete]
func deleteTransaction(s transaction.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := s.Delete(c, state.CurrentUser(c), id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.DELETED})
	}
}

// @Summary List the reminders of a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /transactions/{id}/reminders [get]
func transactionReminders(s transaction.Service, reminders reminder.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		userID := state.CurrentUser(c)

		// 404 for a transaction the caller does not own
		if _, err := s.Get(c, userID, id); err != nil {
			respondError(c, err)
			return
		}

		list, err := reminders.ListForTransaction(c, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"reminders": dtos.NewReminderDTOs(list)})
	}
}
