package routes

import (
	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/goal"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
)

func GoalRoutes(r *gin.RouterGroup, s goal.Service) {
	r.GET("", listGoals(s))
	r.POST("", createGoal(s))
	r.GET("/:id", getGoal(s))
	r.PUT("/:id", updateGoal(s))
	r.DELETE("/:id", deleteGoal(s))
	r.POST("/:id/contribute", contribute(s))
}

// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /goals [get]
func listGoals(s goal.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		goals, err := s.List(c, state.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"goals": goals})
	}
}

// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dtos.GoalDTO true "goal"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /goals [post]
func createGoal(s goal.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.GoalDTO
		if !bind(c, &req) {
			return
		}

		created, err := s.Create(c, state.CurrentUser(c), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{"message": constant.ADDED, "goal": created})
	}
}

// @Summary Get a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} entities.Goal
// @Failure 404 {object} map[string]string
// @Router /goals/{id} [get]
func getGoal(s goal.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		found, err := s.Get(c, state.CurrentUser(c), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, found)
	}
}

// @Summary Update a goal
// @Description current_amount is kept when omitted.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param body body dtos.GoalDTO true "goal"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /goals/{id} [put]
func updateGoal(s goal.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req dtos.GoalDTO
		if !bind(c, &req) {
			return
		}

		updated, err := s.Update(c, state.CurrentUser(c), id, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.UPDATED, "goal": updated})
	}
}

// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /goals/{id} [delete]
func deleteGoal(s goal.Service) func(c *gin.Context) {
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

// @Summary Add to a goal's saved amount
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "id"
// @Param body body dtos.ContributionDTO true "amount"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /goals/{id}/contribute [post]
func contribute(s goal.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req dtos.ContributionDTO
		if !bind(c, &req) {
			return
		}

		updated, err := s.Contribute(c, state.CurrentUser(c), id, req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.CONTRIBUTION_ADDED, "goal": updated})
	}
}
