package routes

import (
	"context"

	"github.com/capital/finance/pkg/domains/reminder"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/entities"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
)

func ReminderRoutes(r *gin.RouterGroup, s reminder.Service) {
	r.GET("", listReminders(s.List))
	r.GET("/notifications", listReminders(s.Notifications))
	r.GET("/upcoming", listReminders(s.Upcoming))
	r.GET("/overdue", listReminders(s.Overdue))
	r.PATCH("/:id/paid", setReminder(s.MarkPaid))
	r.PATCH("/:id/pending", setReminder(s.MarkPending))
	r.PATCH("/:id/notified", setReminder(s.MarkNotified))
}

type reminderView func(ctx context.Context, userID uint) ([]entities.InstallmentReminder, error)

type reminderSetter func(ctx context.Context, userID, id uint) (entities.InstallmentReminder, error)

// @Summary List reminders
// @Description /reminders returns all of them. /notifications: unpaid, not yet notified, due within 7 days. /upcoming: unpaid, due within 30 days. /overdue: unpaid and past due.
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /reminders [get]
// @Router /reminders/notifications [get]
// @Router /reminders/upcoming [get]
// @Router /reminders/overdue [get]
func listReminders(view reminderView) func(c *gin.Context) {
	return func(c *gin.Context) {
		list, err := view(c, state.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"reminders": dtos.NewReminderDTOs(list),
			"count":     len(list),
		})
	}
}

// @Summary Change a reminder's state
// @Description paid sets paid_at to today, pending clears it, notified hides it from notifications.
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} dtos.ReminderDTO
// @Failure 404 {object} map[string]string
// @Router /reminders/{id}/paid [patch]
// @Router /reminders/{id}/pending [patch]
// @Router /reminders/{id}/notified [patch]
func setReminder(set reminderSetter) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		updated, err := set(c, state.CurrentUser(c), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, dtos.NewReminderDTO(updated))
	}
}
