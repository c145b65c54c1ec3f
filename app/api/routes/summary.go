package routes

import (
	"time"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/summary"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
)

// SummaryRoutes defaults year and month to the current ones in loc.
func SummaryRoutes(r *gin.RouterGroup, s summary.Service, loc *time.Location) {
	r.GET("/overview", overview(s, loc))
	r.GET("/month", monthSummary(s, loc))
}

// @Summary Monthly totals for a year
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param year query int false "defaults to the current year"
// @Success 200 {object} dtos.Overview
// @Failure 400 {object} map[string]string
// @Router /summary/overview [get]
func overview(s summary.Service, loc *time.Location) func(c *gin.Context) {
	return func(c *gin.Context) {
		year, ok := queryInt(c, "year", time.Now().In(loc).Year(), constant.INVALID_YEAR)
		if !ok {
			return
		}

		result, err := s.Overview(c, state.CurrentUser(c), year)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, result)
	}
}

// @Summary Totals per category for a month
// @Tags summary
// @Produce json
// @Security BearerAuth
// @Param year query int false "defaults to the current year"
// @Param month query int false "1-12, defaults to the current month"
// @Success 200 {object} dtos.MonthSummary
// @Failure 400 {object} map[string]string
// @Router /summary/month [get]
func monthSummary(s summary.Service, loc *time.Location) func(c *gin.Context) {
	return func(c *gin.Context) {
		now := time.Now().In(loc)
		year, ok := queryInt(c, "year", now.Year(), constant.INVALID_YEAR)
		if !ok {
			return
		}
		month, ok := queryInt(c, "month", int(now.Month()), constant.INVALID_MONTH)
		if !ok {
			return
		}

		result, err := s.Month(c, state.CurrentUser(c), year, month)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, result)
	}
}
