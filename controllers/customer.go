package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"salonpro-crm/services"
	"salonpro-crm/utils"

	"github.com/gin-gonic/gin"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name            string   `json:"name" binding:"required"`
	PhoneNumber     string   `json:"phoneNumber" binding:"required"`
	PreferredStyles []string `json:"preferredStyles"`
	Notes           string   `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name            *string   `json:"name"`
	PhoneNumber     *string   `json:"phoneNumber"`
	PreferredStyles *[]string `json:"preferredStyles"`
	Notes           *string   `json:"notes"`
}

// AddVisitInput defines the expected JSON structure for recording a visit.
// A missing or null servicesTaken is rejected by the service.
type AddVisitInput struct {
	ServicesTaken []string `json:"servicesTaken"`
	Notes         string   `json:"notes"`
}

type CustomerController struct {
	Service services.CustomerService
	Logger  *slog.Logger
}

func NewCustomerController(svc services.CustomerService, logger *slog.Logger) *CustomerController {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerController{
		Service: svc,
		Logger:  logger.With("component", "customer-controller"),
	}
}

// GetCustomers lists every customer ordered by name
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.Service.ListAll(c.Request.Context())
	if err != nil {
		cc.Logger.Error("list customers", "error", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Error retrieving customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := cc.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.respondError(c, err, "Error retrieving customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// SearchCustomers matches the term against customer names, ignoring case
func (cc *CustomerController) SearchCustomers(c *gin.Context) {
	term := c.Param("term")
	customers, err := cc.Service.SearchByName(c.Request.Context(), term)
	if err != nil {
		cc.Logger.Error("search customers", "term", term, "error", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Error searching customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// CreateCustomer creates a new customer after checking the phone is free
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Name and phone number are required")
		return
	}

	ctx := c.Request.Context()
	if _, err := cc.Service.GetByPhone(ctx, input.PhoneNumber); err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		return
	} else if !errors.Is(err, services.ErrCustomerNotFound) {
		cc.respondError(c, err, "Error creating customer")
		return
	}

	customer, err := cc.Service.Create(ctx, services.CreateCustomerInput{
		Name:            input.Name,
		PhoneNumber:     input.PhoneNumber,
		PreferredStyles: input.PreferredStyles,
		Notes:           input.Notes,
	})
	if err != nil {
		cc.respondError(c, err, "Error creating customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer applies a partial update; omitted or empty fields are kept
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	current, err := cc.Service.GetByID(ctx, id)
	if err != nil {
		cc.respondError(c, err, "Error updating customer")
		return
	}

	// Check if phone is being changed to another existing customer
	if input.PhoneNumber != nil && *input.PhoneNumber != "" && *input.PhoneNumber != current.PhoneNumber {
		if other, err := cc.Service.GetByPhone(ctx, *input.PhoneNumber); err == nil && other.ID != id {
			utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
			return
		} else if err != nil && !errors.Is(err, services.ErrCustomerNotFound) {
			cc.respondError(c, err, "Error updating customer")
			return
		}
	}

	customer, err := cc.Service.Update(ctx, id, services.UpdateCustomerInput{
		Name:            input.Name,
		PhoneNumber:     input.PhoneNumber,
		PreferredStyles: input.PreferredStyles,
		Notes:           input.Notes,
	})
	if err != nil {
		cc.respondError(c, err, "Error updating customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// AddVisit appends a visit, stamped with the current time, to a customer's history
func (cc *CustomerController) AddVisit(c *gin.Context) {
	var input AddVisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Services taken must be an array")
		return
	}

	visit, err := cc.Service.AddVisit(c.Request.Context(), c.Param("id"), input.ServicesTaken, input.Notes)
	if err != nil {
		cc.respondError(c, err, "Error adding service visit")
		return
	}

	c.JSON(http.StatusCreated, visit)
}

// DeleteCustomer removes a customer together with its visit history
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	deleted, err := cc.Service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.respondError(c, err, "Error deleting customer")
		return
	}
	if !deleted {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// Health reports which storage backend is serving requests
func (cc *CustomerController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": cc.Service.Backend()})
}

func (cc *CustomerController) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound):
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
	case errors.Is(err, services.ErrDuplicatePhone):
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
	case errors.Is(err, services.ErrInvalidServices):
		utils.RespondWithError(c, http.StatusBadRequest, "Services taken must be an array")
	default:
		cc.Logger.Error(fallback, "path", c.Request.URL.Path, "error", err)
		utils.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
