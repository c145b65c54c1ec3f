package routes

import (
	"fmt"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/domains/auth"
	"github.com/capital/finance/pkg/dtos"
	"github.com/capital/finance/pkg/middleware"
	"github.com/capital/finance/pkg/state"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.RouterGroup, s auth.Service) {
	r.POST("/register", register(s))
	r.POST("/login", login(s))
	r.POST("/forgot-password", forgotPassword(s))
	r.POST("/verify-reset-code", verifyResetCode(s))
	r.POST("/reset-password", resetPassword(s))

	authGroup := r.Group("", middleware.CheckAuth(s))
	{
		authGroup.GET("/verify-token", verifyToken())
		authGroup.POST("/refresh-token", refreshToken(s))
		authGroup.PUT("/password", changePassword(s))
		authGroup.POST("/deactivate", deactivate(s))
	}
}

// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dtos.DTOForUserCreate true "new user"
// @Success 201 {object} dtos.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func register(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.DTOForUserCreate
		if !bind(c, &req) {
			return
		}

		session, err := s.Register(c, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, dtos.NewSessionResponse(fmt.Sprintf(constant.CREATED, "User"), session))
	}
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dtos.DTOForUserLogin true "credentials"
// @Success 200 {object} dtos.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func login(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.DTOForUserLogin
		if !bind(c, &req) {
			return
		}

		session, err := s.Login(c, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, dtos.NewSessionResponse(constant.LOGIN_SUCCESS, session))
	}
}

// @Summary Send a password recovery code
// @Description Unknown emails get the same answer as known ones.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dtos.ForgotPasswordDTO true "email"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/forgot-password [post]
func forgotPassword(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.ForgotPasswordDTO
		if !bind(c, &req) {
			return
		}

		if err := s.RequestReset(c, req.Email); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.RESET_CODE_SENT})
	}
}

// @Summary Check a recovery code without using it
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dtos.VerifyResetCodeDTO true "email and code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /auth/verify-reset-code [post]
func verifyResetCode(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.VerifyResetCodeDTO
		if !bind(c, &req) {
			return
		}

		if err := s.VerifyResetCode(c, req.Email, req.Code); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.RESET_CODE_VALID, "valid": true})
	}
}

// @Summary Set a new password with a recovery code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dtos.ResetPasswordDTO true "email, code and new password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /auth/reset-password [post]
func resetPassword(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.ResetPasswordDTO
		if !bind(c, &req) {
			return
		}

		if err := s.CompleteReset(c, req.Email, req.Code, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.PASSWORD_RESET})
	}
}

// @Summary Check the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/verify-token [get]
func verifyToken() func(c *gin.Context) {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"valid": true,
			"user":  dtos.NewUserDTO(currentUser(c)),
		})
	}
}

// @Summary Issue a fresh token
// @Description The old token stays valid until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dtos.SessionResponse
// @Failure 401 {object} map[string]string
// @Router /auth/refresh-token [post]
func refreshToken(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		session, err := s.Refresh(c, currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, dtos.NewSessionResponse(constant.TOKEN_RENEWED, session))
	}
}

// @Summary Change the password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dtos.ChangePasswordDTO true "current and new password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/password [put]
func changePassword(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		var req dtos.ChangePasswordDTO
		if !bind(c, &req) {
			return
		}

		if err := s.ChangePassword(c, state.CurrentUser(c), req); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.PASSWORD_RESET})
	}
}

// @Summary Deactivate the account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/deactivate [post]
func deactivate(s auth.Service) func(c *gin.Context) {
	return func(c *gin.Context) {
		if err := s.Deactivate(c, state.CurrentUser(c)); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": constant.ACCOUNT_DEACTIVATED})
	}
}
