package handlers

import (
	"net/http"

	"pharmakiosk/models"
	"pharmakiosk/services/staff"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StaffHandler serves employee and position management plus admin login.
type StaffHandler struct {
	Staff  staff.StaffService
	Logger *zap.Logger
}

func NewStaffHandler(svc staff.StaffService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{Staff: svc, Logger: logger}
}

// LoginHandler authenticates an admin and returns a bearer token.
func (h *StaffHandler) LoginHandler(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "email and password are required", err)
		return
	}
	resp, err := h.Staff.AuthenticateAdmin(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to authenticate")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *StaffHandler) CreateEmployeeHandler(c *gin.Context) {
	var input staff.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	emp, err := h.Staff.CreateEmployee(c.Request.Context(), input)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// ListEmployeesHandler lists employees; ?active=true restricts to active ones.
func (h *StaffHandler) ListEmployeesHandler(c *gin.Context) {
	employees, err := h.Staff.ListEmployees(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch employees")
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *StaffHandler) GetEmployeeHandler(c *gin.Context) {
	emp, err := h.Staff.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch employee")
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *StaffHandler) UpdateEmployeeHandler(c *gin.Context) {
	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	emp, err := h.Staff.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update employee")
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (h *StaffHandler) DeleteEmployeeHandler(c *gin.Context) {
	if err := h.Staff.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to delete employee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

type positionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *StaffHandler) CreatePositionHandler(c *gin.Context) {
	var input positionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	pos, err := h.Staff.CreatePosition(c.Request.Context(), input.Name, input.Description)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to create position")
		return
	}
	c.JSON(http.StatusCreated, pos)
}

func (h *StaffHandler) ListPositionsHandler(c *gin.Context) {
	positions, err := h.Staff.ListPositions(c.Request.Context())
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch positions")
		return
	}
	c.JSON(http.StatusOK, positions)
}

func (h *StaffHandler) GetPositionHandler(c *gin.Context) {
	pos, err := h.Staff.GetPosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to fetch position")
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *StaffHandler) UpdatePositionHandler(c *gin.Context) {
	var input positionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid input", err)
		return
	}
	pos, err := h.Staff.UpdatePosition(c.Request.Context(), c.Param("id"), input.Name, input.Description)
	if err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to update position")
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *StaffHandler) DeletePositionHandler(c *gin.Context) {
	if err := h.Staff.DeletePosition(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, getLogger(c, h.Logger), err, "Failed to delete position")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position deleted"})
}
